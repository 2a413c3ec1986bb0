package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saferide/portal/models"
)

const vehicleSelectQuery = `SELECT id, marke, modell, chassis_nr, first_inv, km_stand,
	sommerreifen, winterreifen, notes, fahrzeugausweis_url, created_at FROM vehicles`

func scanVehicle(scanner interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	err := scanner.Scan(&v.ID, &v.Marke, &v.Modell, &v.ChassisNr, &v.FirstInv, &v.KmStand,
		&v.Sommerreifen, &v.Winterreifen, &v.Notes, &v.FahrzeugausweisURL, &v.CreatedAt)
	return v, err
}

// ListVehicles lists all vehicles
// @Summary      List vehicles
// @Description  Get all school vehicles sorted by make and model.
// @Tags         vehicles
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Vehicle}
// @Router       /vehicles [get]
// @Security     BearerAuth
func ListVehicles(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(vehicleSelectQuery + " ORDER BY marke, modell")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		vehicles = append(vehicles, v)
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// GetVehicle returns a single vehicle
// @Summary      Get vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  Response{data=models.Vehicle}
// @Failure      404  {object}  Response{error=string}
// @Router       /vehicles/{id} [get]
// @Security     BearerAuth
func GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := scanVehicle(DB.QueryRow(vehicleSelectQuery+" WHERE id = ?", chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CreateVehicle creates a new vehicle
// @Summary      Create vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        vehicle  body      models.VehicleInput  true  "Vehicle contents"
// @Success      201      {object}  Response{data=models.Vehicle}
// @Failure      400      {object}  Response{error=string}
// @Router       /vehicles [post]
// @Security     BearerAuth
func CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var input models.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO vehicles (id, marke, modell, chassis_nr, first_inv, km_stand, sommerreifen, winterreifen, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.Marke, input.Modell, input.ChassisNr, input.FirstInv, input.KmStand,
		input.Sommerreifen, input.Winterreifen, input.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	v, err := scanVehicle(DB.QueryRow(vehicleSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created vehicle: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// UpdateVehicle updates an existing vehicle
// @Summary      Update vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Vehicle ID"
// @Param        vehicle  body      models.VehicleInput  true  "Updated vehicle contents"
// @Success      200      {object}  Response{data=models.Vehicle}
// @Failure      404      {object}  Response{error=string}
// @Router       /vehicles/{id} [put]
// @Security     BearerAuth
func UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE vehicles SET marke = ?, modell = ?, chassis_nr = ?, first_inv = ?,
		km_stand = ?, sommerreifen = ?, winterreifen = ?, notes = ? WHERE id = ?`,
		input.Marke, input.Modell, input.ChassisNr, input.FirstInv,
		input.KmStand, input.Sommerreifen, input.Winterreifen, input.Notes, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	v, err := scanVehicle(DB.QueryRow(vehicleSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated vehicle: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeleteVehicle deletes a vehicle and its service history
// @Summary      Delete vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /vehicles/{id} [delete]
// @Security     BearerAuth
func DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListVehicleServices lists the service history of one vehicle
// @Summary      List vehicle services
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  Response{data=[]models.VehicleService}
// @Router       /vehicles/{id}/services [get]
// @Security     BearerAuth
func ListVehicleServices(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	rows, err := DB.Query(`SELECT id, vehicle_id, date, description, km_stand, file_url, created_at
		FROM vehicle_services WHERE vehicle_id = ? ORDER BY date DESC`, vehicleID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var services []models.VehicleService
	for rows.Next() {
		var s models.VehicleService
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.Date, &s.Description, &s.KmStand, &s.FileURL, &s.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		services = append(services, s)
	}
	if services == nil {
		services = []models.VehicleService{}
	}
	writeJSON(w, http.StatusOK, services)
}

// CreateVehicleService adds a service entry to a vehicle
// @Summary      Create vehicle service
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Vehicle ID"
// @Param        service  body      models.VehicleServiceInput  true  "Service contents"
// @Success      201      {object}  Response{data=models.VehicleService}
// @Failure      400      {object}  Response{error=string}
// @Router       /vehicles/{id}/services [post]
// @Security     BearerAuth
func CreateVehicleService(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	var input models.VehicleServiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec("INSERT INTO vehicle_services (id, vehicle_id, date, description, km_stand) VALUES (?, ?, ?, ?, ?)",
		id, vehicleID, input.Date, input.Description, input.KmStand)
	if err != nil {
		writeError(w, http.StatusBadRequest, "vehicle not found")
		return
	}

	var s models.VehicleService
	err = DB.QueryRow(`SELECT id, vehicle_id, date, description, km_stand, file_url, created_at
		FROM vehicle_services WHERE id = ?`, id).
		Scan(&s.ID, &s.VehicleID, &s.Date, &s.Description, &s.KmStand, &s.FileURL, &s.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created service: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// DeleteVehicleService deletes a service entry
// @Summary      Delete vehicle service
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /services/{id} [delete]
// @Security     BearerAuth
func DeleteVehicleService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM vehicle_services WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListVehicleImages lists the photos of one vehicle
// @Summary      List vehicle images
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  Response{data=[]models.VehicleImage}
// @Router       /vehicles/{id}/images [get]
// @Security     BearerAuth
func ListVehicleImages(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	rows, err := DB.Query(`SELECT id, vehicle_id, file_url, created_at
		FROM vehicle_images WHERE vehicle_id = ? ORDER BY created_at DESC`, vehicleID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var images []models.VehicleImage
	for rows.Next() {
		var img models.VehicleImage
		if err := rows.Scan(&img.ID, &img.VehicleID, &img.FileURL, &img.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		images = append(images, img)
	}
	if images == nil {
		images = []models.VehicleImage{}
	}
	writeJSON(w, http.StatusOK, images)
}
