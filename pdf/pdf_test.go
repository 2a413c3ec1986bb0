package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferide/portal/models"
	"github.com/saferide/portal/report"
)

func TestFormatCHF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "CHF 100.00"},
		{"40.5", "CHF 40.50"},
		{"-12.345", "CHF -12.35"},
		{"0", "CHF 0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCHF(decimal.RequireFromString(tt.in)))
	}
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "saferide_2024_01.pdf", MonthlyFileName(2024, 1))
	assert.Equal(t, "saferide_2024_12.pdf", MonthlyFileName(2024, 12))
	assert.Equal(t, "saferide_2024.pdf", YearlyFileName(2024))
}

func TestBuildMonthlyDetail(t *testing.T) {
	konto := "Fahrstunden"
	bar := "bar"
	txns := []models.Transaction{
		{
			Date:          "2024-01-10",
			Description:   "Fahrstunde Kat. B",
			Type:          "income",
			Amount:        decimal.NewFromInt(100),
			AccountName:   &konto,
			PaymentMethod: &bar,
		},
	}
	out, err := BuildMonthlyDetail("Fahrschule Saferide", 2024, 1, txns)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestBuildYearlyReport(t *testing.T) {
	accounts := []models.Account{
		{ID: "a1", Name: "Fahrstunden", Type: "income"},
		{ID: "a2", Name: "Benzin", Type: "expense"},
	}
	r := report.ComputeYearlyTotals(2024, nil, accounts)

	out, err := BuildYearlyReport("Fahrschule Saferide", 2024, r)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
