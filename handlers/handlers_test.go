package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferide/portal/db"
	"github.com/saferide/portal/models"
	"github.com/saferide/portal/report"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

// newTestRouter wires a fresh in-memory database into the API routes.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	prev := DB
	DB = database
	t.Cleanup(func() { DB = prev })

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", Login)
		r.Post("/auth/register", Register)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Get("/users", ListUsers)
			r.Delete("/users/{id}", DeleteUser)
			r.Post("/users/change-password", ChangePassword)

			r.Get("/accounts", ListAccounts)
			r.Post("/accounts", CreateAccount)
			r.Put("/accounts/{id}", UpdateAccount)
			r.Delete("/accounts/{id}", DeleteAccount)

			r.Get("/transactions", ListTransactions)
			r.Post("/transactions", CreateTransaction)
			r.Get("/transactions/{id}", GetTransaction)
			r.Put("/transactions/{id}", UpdateTransaction)
			r.Delete("/transactions/{id}", DeleteTransaction)

			r.Get("/reports/yearly", YearlyReport)
			r.Get("/reports/statistics", StatisticsReport)
			r.Get("/reports/export-pdf", ExportPDF)
		})
	})
	return r
}

// doJSON performs a request and decodes the response envelope.
func doJSON(t *testing.T, r chi.Router, method, path, token string, body any) (int, json.RawMessage, string) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec.Code, envelope.Data, envelope.Error
}

func decodeInto(t *testing.T, raw json.RawMessage, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, target))
}

// registerAdmin bootstraps the first (admin) user and returns a token.
func registerAdmin(t *testing.T, r chi.Router) string {
	t.Helper()

	code, _, errMsg := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "nadine", "password": "geheim123", "role": "admin"})
	require.Equal(t, http.StatusCreated, code, errMsg)

	return login(t, r, "nadine", "geheim123")
}

func login(t *testing.T, r chi.Router, username, password string) string {
	t.Helper()

	code, data, errMsg := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, code, errMsg)

	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeInto(t, data, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func createAccount(t *testing.T, r chi.Router, token, name, typ string) models.Account {
	t.Helper()

	code, data, errMsg := doJSON(t, r, http.MethodPost, "/api/accounts", token,
		map[string]string{"name": name, "type": typ})
	require.Equal(t, http.StatusCreated, code, errMsg)

	var a models.Account
	decodeInto(t, data, &a)
	return a
}

func createTransaction(t *testing.T, r chi.Router, token string, input map[string]any) models.Transaction {
	t.Helper()

	code, data, errMsg := doJSON(t, r, http.MethodPost, "/api/transactions", token, input)
	require.Equal(t, http.StatusCreated, code, errMsg)

	var txn models.Transaction
	decodeInto(t, data, &txn)
	return txn
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	// First registration is open and bootstraps the admin.
	token := registerAdmin(t, r)

	// Further registrations need an admin token.
	code, _, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "aushilfe", "password": "geheim123"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", token,
		map[string]string{"username": "aushilfe", "password": "geheim123"})
	assert.Equal(t, http.StatusCreated, code)

	// Duplicate usernames are rejected.
	code, _, errMsg := doJSON(t, r, http.MethodPost, "/api/auth/register", token,
		map[string]string{"username": "aushilfe", "password": "geheim123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username already exists", errMsg)

	// Wrong password fails.
	code, _, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "nadine", "password": "falsch"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	registerAdmin(t, r)

	code, _, _ := doJSON(t, r, http.MethodGet, "/api/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _, _ = doJSON(t, r, http.MethodGet, "/api/accounts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAccountCRUD(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)

	a := createAccount(t, r, token, "Fahrstunden", "income")
	assert.Equal(t, "Fahrstunden", a.Name)
	assert.Equal(t, "income", a.Type)
	assert.NotEmpty(t, a.ID)

	// Invalid type.
	code, _, _ := doJSON(t, r, http.MethodPost, "/api/accounts", token,
		map[string]string{"name": "Kasse", "type": "asset"})
	assert.Equal(t, http.StatusBadRequest, code)

	// Update.
	code, data, errMsg := doJSON(t, r, http.MethodPut, "/api/accounts/"+a.ID, token,
		map[string]string{"name": "Fahrstunden Auto", "type": "income"})
	require.Equal(t, http.StatusOK, code, errMsg)
	var updated models.Account
	decodeInto(t, data, &updated)
	assert.Equal(t, "Fahrstunden Auto", updated.Name)

	// List is sorted by name.
	createAccount(t, r, token, "Benzin", "expense")
	code, data, _ = doJSON(t, r, http.MethodGet, "/api/accounts", token, nil)
	require.Equal(t, http.StatusOK, code)
	var accounts []models.Account
	decodeInto(t, data, &accounts)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Benzin", accounts[0].Name)

	// Delete.
	code, _, _ = doJSON(t, r, http.MethodDelete, "/api/accounts/"+a.ID, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _, _ = doJSON(t, r, http.MethodDelete, "/api/accounts/"+a.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAccountWriteRequiresAdmin(t *testing.T) {
	r := newTestRouter(t)
	adminToken := registerAdmin(t, r)

	code, _, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", adminToken,
		map[string]string{"username": "aushilfe", "password": "geheim123"})
	require.Equal(t, http.StatusCreated, code)
	userToken := login(t, r, "aushilfe", "geheim123")

	code, _, _ = doJSON(t, r, http.MethodPost, "/api/accounts", userToken,
		map[string]string{"name": "Kasse", "type": "income"})
	assert.Equal(t, http.StatusForbidden, code)

	// Reading is open to any authenticated user.
	code, _, _ = doJSON(t, r, http.MethodGet, "/api/accounts", userToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAccountDeleteStillReferenced(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)

	a := createAccount(t, r, token, "Fahrstunden", "income")
	createTransaction(t, r, token, map[string]any{
		"date": "2024-03-01", "description": "Lektion", "type": "income",
		"amount": 95, "account_id": a.ID,
	})

	code, _, errMsg := doJSON(t, r, http.MethodDelete, "/api/accounts/"+a.ID, token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, errMsg, "referenced")
}

func TestTransactionCRUD(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)
	a := createAccount(t, r, token, "Fahrstunden", "income")

	txn := createTransaction(t, r, token, map[string]any{
		"date": "2024-03-15", "description": "Doppellektion", "type": "income",
		"amount": 190.50, "account_id": a.ID, "payment_method": "twint",
	})
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(190.50)))
	require.NotNil(t, txn.AccountName)
	assert.Equal(t, "Fahrstunden", *txn.AccountName)
	require.NotNil(t, txn.UserID)

	// Fetch by id.
	code, data, _ := doJSON(t, r, http.MethodGet, "/api/transactions/"+txn.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	var got models.Transaction
	decodeInto(t, data, &got)
	assert.Equal(t, txn.ID, got.ID)

	// Update.
	code, data, errMsg := doJSON(t, r, http.MethodPut, "/api/transactions/"+txn.ID, token, map[string]any{
		"date": "2024-03-16", "description": "Doppellektion", "type": "income",
		"amount": 190.50, "account_id": a.ID, "payment_method": "bar",
	})
	require.Equal(t, http.StatusOK, code, errMsg)
	decodeInto(t, data, &got)
	assert.Equal(t, "2024-03-16", got.Date)
	assert.Equal(t, "bar", *got.PaymentMethod)

	// Delete.
	code, _, _ = doJSON(t, r, http.MethodDelete, "/api/transactions/"+txn.ID, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _, _ = doJSON(t, r, http.MethodGet, "/api/transactions/"+txn.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransactionValidation(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)
	income := createAccount(t, r, token, "Fahrstunden", "income")
	expense := createAccount(t, r, token, "Benzin", "expense")

	cases := []struct {
		name  string
		input map[string]any
	}{
		{"bad date", map[string]any{"date": "15.03.2024", "description": "x", "type": "income", "amount": 1, "account_id": income.ID}},
		{"negative amount", map[string]any{"date": "2024-03-15", "description": "x", "type": "income", "amount": -5, "account_id": income.ID}},
		{"bad payment method", map[string]any{"date": "2024-03-15", "description": "x", "type": "income", "amount": 1, "account_id": income.ID, "payment_method": "paypal"}},
		{"type mismatch", map[string]any{"date": "2024-03-15", "description": "x", "type": "income", "amount": 1, "account_id": expense.ID}},
		{"unknown account", map[string]any{"date": "2024-03-15", "description": "x", "type": "income", "amount": 1, "account_id": "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errMsg := doJSON(t, r, http.MethodPost, "/api/transactions", token, tc.input)
			assert.Equal(t, http.StatusBadRequest, code, errMsg)
		})
	}
}

func TestTransactionListFilter(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)
	a := createAccount(t, r, token, "Fahrstunden", "income")

	for _, date := range []string{"2024-01-10", "2024-01-20", "2024-02-05", "2023-12-31"} {
		createTransaction(t, r, token, map[string]any{
			"date": date, "description": "Lektion", "type": "income",
			"amount": 95, "account_id": a.ID,
		})
	}

	code, data, _ := doJSON(t, r, http.MethodGet, "/api/transactions?year=2024&month=1", token, nil)
	require.Equal(t, http.StatusOK, code)
	var txns []models.Transaction
	decodeInto(t, data, &txns)
	require.Len(t, txns, 2)
	// Newest first.
	assert.Equal(t, "2024-01-20", txns[0].Date)

	code, data, _ = doJSON(t, r, http.MethodGet, "/api/transactions?year=2024", token, nil)
	require.Equal(t, http.StatusOK, code)
	decodeInto(t, data, &txns)
	assert.Len(t, txns, 3)
}

func TestYearlyReportEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)
	income := createAccount(t, r, token, "Fahrstunden", "income")
	expense := createAccount(t, r, token, "Benzin", "expense")

	createTransaction(t, r, token, map[string]any{
		"date": "2024-01-10", "description": "Lektion", "type": "income",
		"amount": 100, "account_id": income.ID, "payment_method": "bar",
	})
	createTransaction(t, r, token, map[string]any{
		"date": "2024-01-15", "description": "Tanken", "type": "expense",
		"amount": 40, "account_id": expense.ID, "payment_method": "kreditkarte",
	})
	createTransaction(t, r, token, map[string]any{
		"date": "2024-03-05", "description": "Lektion", "type": "income",
		"amount": 50, "account_id": income.ID, "payment_method": "twint",
	})

	code, data, errMsg := doJSON(t, r, http.MethodGet, "/api/reports/yearly?year=2024", token, nil)
	require.Equal(t, http.StatusOK, code, errMsg)

	var rep report.YearlyReport
	decodeInto(t, data, &rep)
	assert.Len(t, rep.MonthlyTotals, 12)
	jan := rep.MonthlyTotals["2024-01"]
	assert.True(t, jan.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, jan.Expense.Equal(decimal.NewFromInt(40)))
	assert.True(t, jan.Total.Equal(decimal.NewFromInt(60)))
	assert.True(t, rep.MonthlyTotals["2024-02"].Income.IsZero())
	assert.True(t, rep.YearIncome.Equal(decimal.NewFromInt(150)))
	assert.True(t, rep.YearExpense.Equal(decimal.NewFromInt(40)))
	assert.Zero(t, rep.Skipped)

	// A year with no data still comes back fully zero-filled. Decode into
	// a fresh struct: unmarshalling merges into an existing non-nil map.
	code, data, _ = doJSON(t, r, http.MethodGet, "/api/reports/yearly?year=2020", token, nil)
	require.Equal(t, http.StatusOK, code)
	var empty report.YearlyReport
	decodeInto(t, data, &empty)
	assert.Len(t, empty.MonthlyTotals, 12)
	for month := 1; month <= 12; month++ {
		mt, ok := empty.MonthlyTotals[report.MonthKey(2020, month)]
		require.True(t, ok)
		assert.True(t, mt.Income.IsZero())
		assert.True(t, mt.Expense.IsZero())
	}
	assert.True(t, empty.YearIncome.IsZero())
}

func TestStatisticsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)
	income := createAccount(t, r, token, "Fahrstunden", "income")
	expense := createAccount(t, r, token, "Benzin", "expense")

	createTransaction(t, r, token, map[string]any{
		"date": "2024-01-10", "description": "Lektion", "type": "income",
		"amount": 120, "account_id": income.ID, "payment_method": "bar",
	})
	createTransaction(t, r, token, map[string]any{
		"date": "2024-02-02", "description": "Tanken", "type": "expense",
		"amount": 60, "account_id": expense.ID,
	})

	code, data, errMsg := doJSON(t, r, http.MethodGet, "/api/reports/statistics?year=2024", token, nil)
	require.Equal(t, http.StatusOK, code, errMsg)

	var stats report.Statistics
	decodeInto(t, data, &stats)
	assert.Equal(t, 1, stats.FahrstundenCount)
	assert.True(t, stats.FahrstundenRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, stats.PaymentMethods["bar"].Equal(decimal.NewFromInt(120)))
	_, hasEmpty := stats.PaymentMethods[""]
	assert.False(t, hasEmpty)
	assert.True(t, stats.AvgMonthlyIncome.Equal(decimal.NewFromInt(10)))
	assert.True(t, stats.AvgMonthlyExpense.Equal(decimal.NewFromInt(5)))
}

func TestExportPDFEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := registerAdmin(t, r)
	a := createAccount(t, r, token, "Fahrstunden", "income")
	createTransaction(t, r, token, map[string]any{
		"date": "2024-05-12", "description": "Lektion", "type": "income",
		"amount": 95, "account_id": a.ID, "payment_method": "bar",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/export-pdf?year=2024&month=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "saferide_2024_05.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	req = httptest.NewRequest(http.MethodGet, "/api/reports/export-pdf?year=2024", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "saferide_2024.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	// Month out of range.
	req = httptest.NewRequest(http.MethodGet, "/api/reports/export-pdf?year=2024&month=13", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserManagement(t *testing.T) {
	r := newTestRouter(t)
	adminToken := registerAdmin(t, r)

	code, _, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", adminToken,
		map[string]string{"username": "aushilfe", "password": "geheim123"})
	require.Equal(t, http.StatusCreated, code)
	userToken := login(t, r, "aushilfe", "geheim123")

	// Listing users is admin only.
	code, data, _ := doJSON(t, r, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var users []models.User
	decodeInto(t, data, &users)
	assert.Len(t, users, 2)

	code, _, _ = doJSON(t, r, http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Change own password, then the old one stops working.
	code, _, errMsg := doJSON(t, r, http.MethodPost, "/api/users/change-password", userToken,
		map[string]string{"old_password": "geheim123", "new_password": "neues-geheimnis"})
	require.Equal(t, http.StatusOK, code, errMsg)

	code, _, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "aushilfe", "password": "geheim123"})
	assert.Equal(t, http.StatusUnauthorized, code)
	login(t, r, "aushilfe", "neues-geheimnis")

	// Wrong old password is rejected.
	code, _, _ = doJSON(t, r, http.MethodPost, "/api/users/change-password", userToken,
		map[string]string{"old_password": "falsch", "new_password": "egal12345"})
	assert.Equal(t, http.StatusUnauthorized, code)

	// Admins cannot delete themselves; deleting the helper works and
	// invalidates their token.
	var self models.User
	for _, u := range users {
		if u.Username == "nadine" {
			self = u
		}
	}
	code, _, _ = doJSON(t, r, http.MethodDelete, "/api/users/"+self.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var helper models.User
	for _, u := range users {
		if u.Username == "aushilfe" {
			helper = u
		}
	}
	code, _, _ = doJSON(t, r, http.MethodDelete, "/api/users/"+helper.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _, _ = doJSON(t, r, http.MethodGet, "/api/accounts", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
