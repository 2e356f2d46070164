package entity

import "time"

type DonationCategory struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	SuggestedAmounts []int64   `json:"suggested_amounts"`
	IsActive         bool      `json:"is_active"`
	DisplayOrder     int32     `json:"display_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Event struct {
	ID               uint64     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ImageURL         string     `json:"image_url"`
	Location         string     `json:"location"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	SuggestedAmounts []int64    `json:"suggested_amounts"`
	DonationEnabled  bool       `json:"donation_enabled"`
	IsActive         bool       `json:"is_active"`
	DisplayOrder     int32      `json:"display_order"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type DonationCard struct {
	ID           uint64    `json:"id"`
	CategoryID   uint64    `json:"category_id"`
	Label        string    `json:"label"`
	Amount       int64     `json:"amount"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type EventDonationCard struct {
	ID           uint64    `json:"id"`
	EventID      uint64    `json:"event_id"`
	Label        string    `json:"label"`
	Amount       int64     `json:"amount"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BankAccount is the payee block shared by every bank details table.
type BankAccount struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
	UPIID         string `json:"upi_id"`
	QRCodeURL     string `json:"qr_code_url"`
}

type BankDetails struct {
	ID uint64 `json:"id"`
	BankAccount
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryBankDetails struct {
	ID         uint64 `json:"id"`
	CategoryID uint64 `json:"category_id"`
	BankAccount
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventBankDetails struct {
	ID      uint64 `json:"id"`
	EventID uint64 `json:"event_id"`
	BankAccount
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
