package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saferide/portal/models"
)

const customerSelectQuery = `SELECT id, name, vorname, strasse, plz, ort, telefon, email, created_at FROM customers`

func scanCustomer(scanner interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := scanner.Scan(&c.ID, &c.Name, &c.Vorname, &c.Strasse, &c.PLZ, &c.Ort, &c.Telefon, &c.Email, &c.CreatedAt)
	return c, err
}

// ListCustomers lists all customers
// @Summary      List customers
// @Description  Get all driving-school customers sorted by name.
// @Tags         customers
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Customer}
// @Router       /customers [get]
// @Security     BearerAuth
func ListCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(customerSelectQuery + " ORDER BY name, vorname")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		customers = append(customers, c)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetCustomer returns a single customer
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  Response{data=models.Customer}
// @Failure      404  {object}  Response{error=string}
// @Router       /customers/{id} [get]
// @Security     BearerAuth
func GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := scanCustomer(DB.QueryRow(customerSelectQuery+" WHERE id = ?", chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCustomer creates a new customer
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      models.CustomerInput  true  "Customer contents"
// @Success      201       {object}  Response{data=models.Customer}
// @Failure      400       {object}  Response{error=string}
// @Router       /customers [post]
// @Security     BearerAuth
func CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input models.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO customers (id, name, vorname, strasse, plz, ort, telefon, email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.Name, input.Vorname, input.Strasse, input.PLZ, input.Ort, input.Telefon, input.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	c, err := scanCustomer(DB.QueryRow(customerSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created customer: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCustomer updates an existing customer
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id        path      string                true  "Customer ID"
// @Param        customer  body      models.CustomerInput  true  "Updated customer contents"
// @Success      200       {object}  Response{data=models.Customer}
// @Failure      404       {object}  Response{error=string}
// @Router       /customers/{id} [put]
// @Security     BearerAuth
func UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE customers SET name = ?, vorname = ?, strasse = ?, plz = ?, ort = ?, telefon = ?, email = ? WHERE id = ?`,
		input.Name, input.Vorname, input.Strasse, input.PLZ, input.Ort, input.Telefon, input.Email, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	c, err := scanCustomer(DB.QueryRow(customerSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated customer: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCustomer deletes a customer and its remarks
// @Summary      Delete customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /customers/{id} [delete]
// @Security     BearerAuth
func DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListCustomerRemarks lists the remarks of one customer
// @Summary      List customer remarks
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  Response{data=[]models.CustomerRemark}
// @Router       /customers/{id}/remarks [get]
// @Security     BearerAuth
func ListCustomerRemarks(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	rows, err := DB.Query(`SELECT id, customer_id, date, remarks, file_url, created_at
		FROM customer_remarks WHERE customer_id = ? ORDER BY date DESC`, customerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var remarks []models.CustomerRemark
	for rows.Next() {
		var cr models.CustomerRemark
		if err := rows.Scan(&cr.ID, &cr.CustomerID, &cr.Date, &cr.Remarks, &cr.FileURL, &cr.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		remarks = append(remarks, cr)
	}
	if remarks == nil {
		remarks = []models.CustomerRemark{}
	}
	writeJSON(w, http.StatusOK, remarks)
}

// CreateCustomerRemark creates a remark on a customer
// @Summary      Create customer remark
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        remark  body      models.CustomerRemarkInput  true  "Remark contents"
// @Success      201     {object}  Response{data=models.CustomerRemark}
// @Failure      400     {object}  Response{error=string}
// @Router       /customer-remarks [post]
// @Security     BearerAuth
func CreateCustomerRemark(w http.ResponseWriter, r *http.Request) {
	var input models.CustomerRemarkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec("INSERT INTO customer_remarks (id, customer_id, date, remarks) VALUES (?, ?, ?, ?)",
		id, input.CustomerID, input.Date, input.Remarks)
	if err != nil {
		writeError(w, http.StatusBadRequest, "customer not found")
		return
	}

	var cr models.CustomerRemark
	err = DB.QueryRow(`SELECT id, customer_id, date, remarks, file_url, created_at
		FROM customer_remarks WHERE id = ?`, id).
		Scan(&cr.ID, &cr.CustomerID, &cr.Date, &cr.Remarks, &cr.FileURL, &cr.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created remark: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, cr)
}
