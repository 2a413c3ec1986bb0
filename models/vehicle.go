package models

import "time"

// Vehicle is a school car, including its tyre sets and vehicle papers.
type Vehicle struct {
	ID                 string    `json:"id"`
	Marke              string    `json:"marke"`
	Modell             string    `json:"modell"`
	ChassisNr          string    `json:"chassis_nr"`
	FirstInv           string    `json:"first_inv"`
	KmStand            string    `json:"km_stand"`
	Sommerreifen       string    `json:"sommerreifen"`
	Winterreifen       string    `json:"winterreifen"`
	Notes              string    `json:"notes"`
	FahrzeugausweisURL *string   `json:"fahrzeugausweis_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// VehicleInput is used for creating/updating vehicles.
type VehicleInput struct {
	Marke        string `json:"marke"`
	Modell       string `json:"modell"`
	ChassisNr    string `json:"chassis_nr"`
	FirstInv     string `json:"first_inv"`
	KmStand      string `json:"km_stand"`
	Sommerreifen string `json:"sommerreifen"`
	Winterreifen string `json:"winterreifen"`
	Notes        string `json:"notes"`
}

func (v *VehicleInput) Validate() string {
	if v.Marke == "" {
		return "marke is required"
	}
	if v.Modell == "" {
		return "modell is required"
	}
	return ""
}

// VehicleService is one service-history entry for a vehicle.
type VehicleService struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicle_id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	KmStand     string    `json:"km_stand"`
	FileURL     *string   `json:"file_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// VehicleServiceInput is used for creating service entries.
type VehicleServiceInput struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	KmStand     string `json:"km_stand"`
}

func (s *VehicleServiceInput) Validate() string {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if s.Description == "" {
		return "description is required"
	}
	return ""
}

// VehicleImage is an uploaded photo of a vehicle.
type VehicleImage struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
