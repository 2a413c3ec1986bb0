package report

import (
	"github.com/shopspring/decimal"

	"github.com/saferide/portal/models"
)

var twelve = decimal.NewFromInt(12)

// MonthlyAmounts is the income/expense pair for one month of the
// statistics series.
type MonthlyAmounts struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Statistics is the secondary yearly aggregation: monthly series,
// payment-method breakdown, and the driving-lesson metric. Averages
// always divide by 12, regardless of how many months have activity.
type Statistics struct {
	MonthlyData        map[string]MonthlyAmounts  `json:"monthly_data"`
	PaymentMethods     map[string]decimal.Decimal `json:"payment_methods"`
	FahrstundenCount   int                        `json:"fahrstunden_count"`
	FahrstundenRevenue decimal.Decimal            `json:"fahrstunden_revenue"`
	AvgMonthlyIncome   decimal.Decimal            `json:"avg_monthly_income"`
	AvgMonthlyExpense  decimal.Decimal            `json:"avg_monthly_expense"`
	Skipped            int                        `json:"skipped"`
}

// ComputeStatistics aggregates a year's transactions into the statistics
// view. Transactions with an empty payment method are left out of the
// payment-method map entirely rather than zero-bucketed. Malformed rows
// are skipped and counted, mirroring ComputeYearlyTotals.
func ComputeStatistics(year int, txns []models.Transaction, accounts []models.Account) Statistics {
	byID := accountIndex(accounts)

	s := Statistics{
		MonthlyData:        make(map[string]MonthlyAmounts, 12),
		PaymentMethods:     make(map[string]decimal.Decimal),
		FahrstundenRevenue: decimal.Zero,
	}
	for m := 1; m <= 12; m++ {
		s.MonthlyData[MonthKey(year, m)] = MonthlyAmounts{
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero

	for _, t := range txns {
		skipped, ok := usable(year, t, byID)
		if !ok {
			if skipped {
				s.Skipped++
			}
			continue
		}

		_, month, _ := txnMonth(t)
		key := MonthKey(year, month)
		md := s.MonthlyData[key]
		if t.Type == "income" {
			md.Income = md.Income.Add(t.Amount)
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			md.Expense = md.Expense.Add(t.Amount)
			totalExpense = totalExpense.Add(t.Amount)
		}
		s.MonthlyData[key] = md

		if t.PaymentMethod != nil && *t.PaymentMethod != "" {
			method := *t.PaymentMethod
			sum, exists := s.PaymentMethods[method]
			if !exists {
				sum = decimal.Zero
			}
			s.PaymentMethods[method] = sum.Add(t.Amount)
		}

		if IsFahrstundenAccount(byID[t.AccountID].Name) {
			s.FahrstundenCount++
			s.FahrstundenRevenue = s.FahrstundenRevenue.Add(t.Amount)
		}
	}

	// A partial year still averages over the full 12 months.
	s.AvgMonthlyIncome = totalIncome.Div(twelve)
	s.AvgMonthlyExpense = totalExpense.Div(twelve)

	return s
}
