package report

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferide/portal/models"
)

var testAccounts = []models.Account{
	{ID: "a1", Name: "Fahrstunden", Type: "income"},
	{ID: "a2", Name: "Benzin", Type: "expense"},
}

func txn(date, typ string, amount float64, accountID string, method string) models.Transaction {
	t := models.Transaction{
		Date:      date,
		Type:      typ,
		Amount:    decimal.NewFromFloat(amount),
		AccountID: accountID,
	}
	if method != "" {
		t.PaymentMethod = &method
	}
	return t
}

func testTxns() []models.Transaction {
	return []models.Transaction{
		txn("2024-01-10", "income", 100, "a1", "bar"),
		txn("2024-01-15", "expense", 40, "a2", "twint"),
		txn("2024-03-01", "income", 50, "a1", "bar"),
	}
}

func TestComputeYearlyTotals_Scenario(t *testing.T) {
	r := ComputeYearlyTotals(2024, testTxns(), testAccounts)

	require.Len(t, r.MonthlyTotals, 12)

	jan := r.MonthlyTotals["2024-01"]
	assert.True(t, jan.Income.Equal(decimal.NewFromInt(100)), "jan income = %s", jan.Income)
	assert.True(t, jan.Expense.Equal(decimal.NewFromInt(40)), "jan expense = %s", jan.Expense)
	assert.True(t, jan.Total.Equal(decimal.NewFromInt(60)), "jan total = %s", jan.Total)

	feb := r.MonthlyTotals["2024-02"]
	assert.True(t, feb.Income.IsZero() && feb.Expense.IsZero() && feb.Total.IsZero())

	mar := r.MonthlyTotals["2024-03"]
	assert.True(t, mar.Income.Equal(decimal.NewFromInt(50)))
	assert.True(t, mar.Expense.IsZero())
	assert.True(t, mar.Total.Equal(decimal.NewFromInt(50)))

	fahrstunden := r.AccountTotals["Fahrstunden"]
	assert.Equal(t, "income", fahrstunden.Type)
	assert.True(t, fahrstunden.Income.Equal(decimal.NewFromInt(150)))
	assert.True(t, fahrstunden.Expense.IsZero())

	benzin := r.AccountTotals["Benzin"]
	assert.Equal(t, "expense", benzin.Type)
	assert.True(t, benzin.Income.IsZero())
	assert.True(t, benzin.Expense.Equal(decimal.NewFromInt(40)))

	assert.True(t, r.YearIncome.Equal(decimal.NewFromInt(150)))
	assert.True(t, r.YearExpense.Equal(decimal.NewFromInt(40)))
	assert.Zero(t, r.Skipped)
}

func TestComputeYearlyTotals_EmptyYear(t *testing.T) {
	r := ComputeYearlyTotals(2023, nil, testAccounts)

	require.Len(t, r.MonthlyTotals, 12)
	for m := 1; m <= 12; m++ {
		mt, ok := r.MonthlyTotals[MonthKey(2023, m)]
		require.True(t, ok, "month %d missing", m)
		assert.True(t, mt.Income.IsZero() && mt.Expense.IsZero() && mt.Total.IsZero())
	}

	require.Len(t, r.AccountTotals, len(testAccounts))
	for name, at := range r.AccountTotals {
		assert.True(t, at.Income.IsZero() && at.Expense.IsZero(), "account %s not zero", name)
	}
	assert.True(t, r.YearIncome.IsZero())
	assert.True(t, r.YearExpense.IsZero())
}

func TestComputeYearlyTotals_SumOfParts(t *testing.T) {
	r := ComputeYearlyTotals(2024, testTxns(), testAccounts)

	income := decimal.Zero
	expense := decimal.Zero
	for _, mt := range r.MonthlyTotals {
		income = income.Add(mt.Income)
		expense = expense.Add(mt.Expense)
	}
	assert.True(t, r.YearIncome.Equal(income), "year income %s != month sum %s", r.YearIncome, income)
	assert.True(t, r.YearExpense.Equal(expense), "year expense %s != month sum %s", r.YearExpense, expense)
}

func TestComputeYearlyTotals_OrderIndependent(t *testing.T) {
	txns := testTxns()
	want := ComputeYearlyTotals(2024, txns, testAccounts)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Transaction, len(txns))
		copy(shuffled, txns)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ComputeYearlyTotals(2024, shuffled, testAccounts)
		for key, mt := range want.MonthlyTotals {
			assert.True(t, got.MonthlyTotals[key].Income.Equal(mt.Income))
			assert.True(t, got.MonthlyTotals[key].Expense.Equal(mt.Expense))
			assert.True(t, got.MonthlyTotals[key].Total.Equal(mt.Total))
		}
		assert.True(t, got.YearIncome.Equal(want.YearIncome))
		assert.True(t, got.YearExpense.Equal(want.YearExpense))
	}
}

func TestComputeYearlyTotals_TotalIdentity(t *testing.T) {
	txns := append(testTxns(),
		// A month with only expenses: total must go negative, not clamp.
		txn("2024-05-02", "expense", 300, "a2", "bank"),
	)
	r := ComputeYearlyTotals(2024, txns, testAccounts)

	for key, mt := range r.MonthlyTotals {
		assert.True(t, mt.Total.Equal(mt.Income.Sub(mt.Expense)), "month %s", key)
	}
	may := r.MonthlyTotals["2024-05"]
	assert.True(t, may.Total.Equal(decimal.NewFromInt(-300)))
}

func TestComputeYearlyTotals_OutsideYearExcluded(t *testing.T) {
	txns := append(testTxns(),
		txn("2023-12-31", "income", 999, "a1", "bar"),
		txn("2025-01-01", "income", 999, "a1", "bar"),
	)
	r := ComputeYearlyTotals(2024, txns, testAccounts)

	assert.True(t, r.YearIncome.Equal(decimal.NewFromInt(150)))
	// Outside-year rows are filtered, not counted as malformed.
	assert.Zero(t, r.Skipped)
}

func TestComputeYearlyTotals_SkipsMalformed(t *testing.T) {
	bad := []models.Transaction{
		txn("2024-02-01", "income", 10, "missing", "bar"), // dangling account
		txn("2024-02-02", "income", -5, "a1", "bar"),      // negative amount
		txn("not-a-date", "income", 10, "a1", "bar"),      // unparseable date
	}
	r := ComputeYearlyTotals(2024, append(testTxns(), bad...), testAccounts)

	assert.Equal(t, 3, r.Skipped)
	assert.True(t, r.YearIncome.Equal(decimal.NewFromInt(150)))
	assert.True(t, r.YearExpense.Equal(decimal.NewFromInt(40)))
}

func TestComputeYearlyTotals_DecimalAddition(t *testing.T) {
	// 0.1 added ten times must be exactly 1, not 0.9999999999999999.
	var txns []models.Transaction
	for i := 0; i < 10; i++ {
		tx := txn("2024-06-01", "income", 0, "a1", "")
		tx.Amount = decimal.RequireFromString("0.1")
		txns = append(txns, tx)
	}
	r := ComputeYearlyTotals(2024, txns, testAccounts)
	assert.True(t, r.YearIncome.Equal(decimal.NewFromInt(1)), "got %s", r.YearIncome)
}

func TestComputeStatistics_PaymentMethods(t *testing.T) {
	txns := append(testTxns(),
		txn("2024-04-01", "income", 25, "a1", ""), // no payment method
	)
	s := ComputeStatistics(2024, txns, testAccounts)

	require.Len(t, s.PaymentMethods, 2)
	assert.True(t, s.PaymentMethods["bar"].Equal(decimal.NewFromInt(150)))
	assert.True(t, s.PaymentMethods["twint"].Equal(decimal.NewFromInt(40)))

	// Value-sum across the map equals the sum over transactions that do
	// carry a method.
	sum := decimal.Zero
	for _, v := range s.PaymentMethods {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(190)))
}

func TestComputeStatistics_Fahrstunden(t *testing.T) {
	s := ComputeStatistics(2024, testTxns(), testAccounts)

	assert.Equal(t, 2, s.FahrstundenCount)
	assert.True(t, s.FahrstundenRevenue.Equal(decimal.NewFromInt(150)))
}

func TestComputeStatistics_MonthlyData(t *testing.T) {
	s := ComputeStatistics(2024, testTxns(), testAccounts)

	require.Len(t, s.MonthlyData, 12)
	jan := s.MonthlyData["2024-01"]
	assert.True(t, jan.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, jan.Expense.Equal(decimal.NewFromInt(40)))
	feb := s.MonthlyData["2024-02"]
	assert.True(t, feb.Income.IsZero() && feb.Expense.IsZero())
}

func TestComputeStatistics_AverageDividesByTwelve(t *testing.T) {
	// Activity in a single month still averages over 12 months.
	txns := []models.Transaction{txn("2024-07-01", "income", 120, "a1", "bar")}
	s := ComputeStatistics(2024, txns, testAccounts)

	assert.True(t, s.AvgMonthlyIncome.Equal(decimal.NewFromInt(10)), "got %s", s.AvgMonthlyIncome)
	assert.True(t, s.AvgMonthlyExpense.IsZero())
}

func TestIsFahrstundenAccount(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Fahrstunden", true},
		{"fahrstunden Kat. B", true},
		{"FAHRSTUNDEN", true},
		{"Benzin", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFahrstundenAccount(tt.name))
		})
	}
}
