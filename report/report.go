// Package report turns a flat list of ledger transactions into the
// yearly and statistical summaries the portal renders and exports.
// All computation is pure and in-memory; currency math uses decimals.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saferide/portal/models"
)

// MonthlyTotal is the income/expense/total triple for one calendar month.
type MonthlyTotal struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Total   decimal.Decimal `json:"total"` // income - expense, may be negative
}

// AccountTotal accumulates a year's income and expense for one account.
// Both buckets are kept even though an account has one fixed type, so the
// renderer can show either populated and the other zero.
type AccountTotal struct {
	Type    string          `json:"type"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// YearlyReport is the per-account and per-month aggregation for one year.
// Skipped counts transactions excluded as malformed (dangling account
// reference, negative amount, or unparseable date).
type YearlyReport struct {
	AccountTotals map[string]AccountTotal `json:"account_totals"`
	MonthlyTotals map[string]MonthlyTotal `json:"monthly_totals"`
	YearIncome    decimal.Decimal         `json:"year_income"`
	YearExpense   decimal.Decimal         `json:"year_expense"`
	Skipped       int                     `json:"skipped"`
}

// MonthKey formats a year and month as the canonical YYYY-MM grouping key.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// txnMonth parses the transaction date and returns its year and month.
func txnMonth(t models.Transaction) (int, int, bool) {
	d, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return 0, 0, false
	}
	return d.Year(), int(d.Month()), true
}

// usable decides whether a transaction participates in year aggregates.
// Returns false with skipped=true for malformed rows, and false with
// skipped=false for rows simply dated outside the requested year.
func usable(year int, t models.Transaction, accounts map[string]models.Account) (skipped bool, ok bool) {
	y, _, parsed := txnMonth(t)
	if !parsed {
		return true, false
	}
	if y != year {
		return false, false
	}
	if _, exists := accounts[t.AccountID]; !exists {
		return true, false
	}
	if t.Amount.IsNegative() {
		return true, false
	}
	return false, true
}

func accountIndex(accounts []models.Account) map[string]models.Account {
	byID := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return byID
}

// ComputeYearlyTotals aggregates a year's transactions into per-month and
// per-account totals. All 12 months of the year are present in the result
// even when empty, and every account in the chart gets an entry. Malformed
// transactions are skipped and counted, never fatal. The result depends
// only on the inputs, not on transaction order.
func ComputeYearlyTotals(year int, txns []models.Transaction, accounts []models.Account) YearlyReport {
	byID := accountIndex(accounts)

	r := YearlyReport{
		AccountTotals: make(map[string]AccountTotal, len(accounts)),
		MonthlyTotals: make(map[string]MonthlyTotal, 12),
		YearIncome:    decimal.Zero,
		YearExpense:   decimal.Zero,
	}
	for m := 1; m <= 12; m++ {
		r.MonthlyTotals[MonthKey(year, m)] = MonthlyTotal{
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Total:   decimal.Zero,
		}
	}
	for _, a := range accounts {
		r.AccountTotals[a.Name] = AccountTotal{
			Type:    a.Type,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, t := range txns {
		skipped, ok := usable(year, t, byID)
		if !ok {
			if skipped {
				r.Skipped++
			}
			continue
		}

		_, month, _ := txnMonth(t)
		key := MonthKey(year, month)
		mt := r.MonthlyTotals[key]
		at := r.AccountTotals[byID[t.AccountID].Name]

		if t.Type == "income" {
			mt.Income = mt.Income.Add(t.Amount)
			at.Income = at.Income.Add(t.Amount)
			r.YearIncome = r.YearIncome.Add(t.Amount)
		} else {
			mt.Expense = mt.Expense.Add(t.Amount)
			at.Expense = at.Expense.Add(t.Amount)
			r.YearExpense = r.YearExpense.Add(t.Amount)
		}
		mt.Total = mt.Income.Sub(mt.Expense)

		r.MonthlyTotals[key] = mt
		r.AccountTotals[byID[t.AccountID].Name] = at
	}

	return r
}

// IsFahrstundenAccount reports whether an account records driving-lesson
// sales. The rule is a case-insensitive match on the account name, the
// same lookup the reporting screens rely on.
func IsFahrstundenAccount(name string) bool {
	return strings.Contains(strings.ToLower(name), "fahrstunden")
}
