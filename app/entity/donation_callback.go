package entity

import "time"

const (
	DonationCallbackProcessed int32 = 10
	DonationCallbackRejected  int32 = 20
)

type DonationCallback struct {
	ID uint64

	DonationID *uint64

	Provider       string
	PaymentID      string
	ReportedStatus string
	PayloadJSON    string
	Status         int32
	Error          *string

	CreatedAt time.Time
}
