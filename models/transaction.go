package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethods lists the accepted payment_method values.
var PaymentMethods = []string{"bar", "kreditkarte", "twint", "bank"}

// Transaction is a single dated money movement posted against one account.
type Transaction struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Description   string          `json:"description"`
	Type          string          `json:"type"` // income, expense
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"account_id"`
	AccountName   *string         `json:"account_name,omitempty"` // Computed via join
	PaymentMethod *string         `json:"payment_method"`
	Remarks       *string         `json:"remarks"`
	FileURL       *string         `json:"file_url,omitempty"`
	UserID        *string         `json:"user_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionInput is used for creating/updating transactions.
type TransactionInput struct {
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"account_id"`
	PaymentMethod *string         `json:"payment_method"`
	Remarks       *string         `json:"remarks"`
}

func (t *TransactionInput) Validate() string {
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if t.Description == "" {
		return "description is required"
	}
	switch t.Type {
	case "income", "expense":
	default:
		return "type must be one of: income, expense"
	}
	if t.Amount.IsNegative() {
		return "amount must not be negative"
	}
	if t.AccountID == "" {
		return "account_id is required"
	}
	if t.PaymentMethod != nil && *t.PaymentMethod != "" {
		valid := false
		for _, m := range PaymentMethods {
			if *t.PaymentMethod == m {
				valid = true
				break
			}
		}
		if !valid {
			return "payment_method must be one of: bar, kreditkarte, twint, bank"
		}
	}
	return ""
}
