package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saferide/portal/models"
)

const accountSelectQuery = `SELECT id, name, type, created_at FROM accounts`

func scanAccount(scanner interface{ Scan(...any) error }) (models.Account, error) {
	var a models.Account
	err := scanner.Scan(&a.ID, &a.Name, &a.Type, &a.CreatedAt)
	return a, err
}

func getAccountByID(id string) (models.Account, error) {
	return scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
}

// ListAccounts lists the chart of accounts
// @Summary      List accounts
// @Description  Get all income and expense accounts, sorted by name.
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Account}
// @Router       /accounts [get]
// @Security     BearerAuth
func ListAccounts(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(accountSelectQuery + " ORDER BY name")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		accounts = append(accounts, a)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// CreateAccount creates a new account
// @Summary      Create account
// @Description  Add an income or expense account to the chart. Admin only.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account  body      models.AccountInput  true  "Account contents"
// @Success      201      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Failure      403      {object}  Response{error=string}
// @Router       /accounts [post]
// @Security     BearerAuth
func CreateAccount(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var input models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	if _, err := DB.Exec("INSERT INTO accounts (id, name, type) VALUES (?, ?, ?)",
		id, input.Name, input.Type); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a, err := getAccountByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAccount updates an existing account
// @Summary      Update account
// @Description  Rename or retype an account. Admin only.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Account ID"
// @Param        account  body      models.AccountInput true  "Updated account contents"
// @Success      200      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /accounts/{id} [put]
// @Security     BearerAuth
func UpdateAccount(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	var input models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec("UPDATE accounts SET name = ?, type = ? WHERE id = ?", input.Name, input.Type, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	a, err := getAccountByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount deletes an account
// @Summary      Delete account
// @Description  Remove an account. Admin only; fails while transactions still reference it.
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id} [delete]
// @Security     BearerAuth
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusConflict, "account is still referenced by transactions")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
