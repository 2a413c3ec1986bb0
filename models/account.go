package models

import "time"

// Account is a named income or expense bucket in the chart of accounts.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // income, expense
	CreatedAt time.Time `json:"created_at"`
}

// AccountInput is used for creating/updating accounts.
type AccountInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (a *AccountInput) Validate() string {
	if a.Name == "" {
		return "name is required"
	}
	switch a.Type {
	case "income", "expense":
	default:
		return "type must be one of: income, expense"
	}
	return ""
}
