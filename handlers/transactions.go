package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saferide/portal/auth"
	"github.com/saferide/portal/models"
)

const txnSelectQuery = `SELECT t.id, t.date, t.description, t.type, t.amount, t.account_id,
	t.payment_method, t.remarks, t.file_url, t.user_id, t.created_at,
	a.name
	FROM transactions t
	LEFT JOIN accounts a ON t.account_id = a.id`

func scanTransaction(scanner interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	err := scanner.Scan(&t.ID, &t.Date, &t.Description, &t.Type, &t.Amount, &t.AccountID,
		&t.PaymentMethod, &t.Remarks, &t.FileURL, &t.UserID, &t.CreatedAt,
		&t.AccountName)
	return t, err
}

func getTransactionByID(id string) (models.Transaction, error) {
	return scanTransaction(DB.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
}

// checkAccountType rejects a transaction whose type disagrees with its
// account's type, so reports never see a mismatched bucket.
func checkAccountType(input *models.TransactionInput) string {
	account, err := getAccountByID(input.AccountID)
	if err != nil {
		return "account not found"
	}
	if account.Type != input.Type {
		return fmt.Sprintf("transaction type %q does not match account type %q", input.Type, account.Type)
	}
	return ""
}

// ListTransactions lists transactions
// @Summary      List transactions
// @Description  Get transactions sorted by date descending, optionally filtered by year and month.
// @Tags         transactions
// @Produce      json
// @Param        year   query     int  false  "Filter by year"
// @Param        month  query     int  false  "Filter by month (requires year)"
// @Success      200    {object}  Response{data=[]models.Transaction}
// @Router       /transactions [get]
// @Security     BearerAuth
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := txnSelectQuery
	var conditions []string
	var args []any

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		if monthStr := r.URL.Query().Get("month"); monthStr != "" {
			month, err := strconv.Atoi(monthStr)
			if err != nil || month < 1 || month > 12 {
				writeError(w, http.StatusBadRequest, "invalid month")
				return
			}
			conditions = append(conditions, "t.date LIKE ?")
			args = append(args, fmt.Sprintf("%04d-%02d%%", year, month))
		} else {
			conditions = append(conditions, "t.date LIKE ?")
			args = append(args, fmt.Sprintf("%04d-%%", year))
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		txns = append(txns, t)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// GetTransaction retrieves a single transaction by ID
// @Summary      Get transaction
// @Description  Get one transaction with its account name populated.
// @Tags         transactions
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  Response{data=models.Transaction}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [get]
// @Security     BearerAuth
func GetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := getTransactionByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTransaction creates a new transaction
// @Summary      Create transaction
// @Description  Record an income or expense movement against an account.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction  body      models.TransactionInput  true  "Transaction contents"
// @Success      201          {object}  Response{data=models.Transaction}
// @Failure      400          {object}  Response{error=string}
// @Router       /transactions [post]
// @Security     BearerAuth
func CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var input models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := checkAccountType(&input); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	session, _ := auth.FromContext(r.Context())
	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO transactions (id, date, description, type, amount, account_id, payment_method, remarks, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.Date, input.Description, input.Type, input.Amount, input.AccountID,
		input.PaymentMethod, input.Remarks, session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	t, err := getTransactionByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created transaction: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTransaction updates an existing transaction
// @Summary      Update transaction
// @Description  Update details of an existing transaction.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id           path      string                   true  "Transaction ID"
// @Param        transaction  body      models.TransactionInput  true  "Updated transaction contents"
// @Success      200          {object}  Response{data=models.Transaction}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /transactions/{id} [put]
// @Security     BearerAuth
func UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := checkAccountType(&input); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE transactions SET date = ?, description = ?, type = ?, amount = ?,
		account_id = ?, payment_method = ?, remarks = ? WHERE id = ?`,
		input.Date, input.Description, input.Type, input.Amount,
		input.AccountID, input.PaymentMethod, input.Remarks, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	t, err := getTransactionByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated transaction: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTransaction deletes a transaction
// @Summary      Delete transaction
// @Description  Remove a transaction.
// @Tags         transactions
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [delete]
// @Security     BearerAuth
func DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
