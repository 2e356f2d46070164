package entity

import "time"

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

const (
	DonationTargetCategory = "category"
	DonationTargetEvent    = "event"
)

type Donation struct {
	ID uint64

	UserID     *uint64
	CategoryID *uint64
	EventID    *uint64
	CardID     *uint64

	Amount int64

	Name    string
	Email   string
	Phone   string
	Address *string
	PanCard *string
	Message *string

	PaymentID              string
	GatewayPaymentID       *string
	Status                 string
	PaymentGatewayResponse *string
	InvoiceNumber          *string

	ReceiptSent      bool
	NotificationSent bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TargetType reports which donation target the row references. Event wins
// because event cards may also carry their parent category for display.
func (d *Donation) TargetType() string {
	if d.EventID != nil {
		return DonationTargetEvent
	}
	return DonationTargetCategory
}

func IsTerminalDonationStatus(status string) bool {
	return status == DonationStatusCompleted || status == DonationStatusFailed
}
