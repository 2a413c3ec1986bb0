package models

import "time"

// BankDocument is a bank statement filed under a YYYY-MM month.
type BankDocument struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Month     string    `json:"month"` // YYYY-MM
	FileURL   string    `json:"file_url"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BankDocumentInput is used for creating bank documents.
type BankDocumentInput struct {
	Date  string `json:"date"`
	Month string `json:"month"`
}

func (b *BankDocumentInput) Validate() string {
	if _, err := time.Parse("2006-01-02", b.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if _, err := time.Parse("2006-01", b.Month); err != nil {
		return "month must be in YYYY-MM format"
	}
	return ""
}

// MiscItem is a miscellaneous monthly attachment with remarks.
type MiscItem struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Month     string    `json:"month"` // YYYY-MM
	Remarks   string    `json:"remarks"`
	FileURL   *string   `json:"file_url,omitempty"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MiscItemInput is used for creating misc items.
type MiscItemInput struct {
	Date    string `json:"date"`
	Month   string `json:"month"`
	Remarks string `json:"remarks"`
}

func (m *MiscItemInput) Validate() string {
	if _, err := time.Parse("2006-01-02", m.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if _, err := time.Parse("2006-01", m.Month); err != nil {
		return "month must be in YYYY-MM format"
	}
	if m.Remarks == "" {
		return "remarks is required"
	}
	return ""
}

// ImportantUpload is a long-lived document such as a contract or insurance paper.
type ImportantUpload struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Remarks     *string   `json:"remarks,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	UserID      *string   `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImportantUploadInput is used for creating important uploads.
type ImportantUploadInput struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Remarks     *string `json:"remarks"`
}

func (i *ImportantUploadInput) Validate() string {
	if _, err := time.Parse("2006-01-02", i.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if i.Description == "" {
		return "description is required"
	}
	return ""
}
