package models

import "time"

// Customer is a driving-school student.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Vorname   string    `json:"vorname"`
	Strasse   string    `json:"strasse"`
	PLZ       string    `json:"plz"`
	Ort       string    `json:"ort"`
	Telefon   string    `json:"telefon"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerInput is used for creating/updating customers.
type CustomerInput struct {
	Name    string `json:"name"`
	Vorname string `json:"vorname"`
	Strasse string `json:"strasse"`
	PLZ     string `json:"plz"`
	Ort     string `json:"ort"`
	Telefon string `json:"telefon"`
	Email   string `json:"email"`
}

func (c *CustomerInput) Validate() string {
	if c.Name == "" {
		return "name is required"
	}
	if c.Vorname == "" {
		return "vorname is required"
	}
	return ""
}

// CustomerRemark is a dated note on a customer, optionally with an attachment.
type CustomerRemark struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Date       string    `json:"date"`
	Remarks    string    `json:"remarks"`
	FileURL    *string   `json:"file_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CustomerRemarkInput is used for creating customer remarks.
type CustomerRemarkInput struct {
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"`
	Remarks    string `json:"remarks"`
}

func (r *CustomerRemarkInput) Validate() string {
	if r.CustomerID == "" {
		return "customer_id is required"
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if r.Remarks == "" {
		return "remarks is required"
	}
	return ""
}
