package entity

import "time"

const (
	DonationEventCreated    = "donation.created"
	DonationEventReconciled = "donation.reconciled"
	DonationEventExpired    = "donation.expired"
)

// DonationEvent is one status history entry of a donation.
type DonationEvent struct {
	ID uint64

	DonationID uint64

	EventType string

	OldStatus *string
	NewStatus string

	Source      string
	PayloadJSON *string

	CreatedAt time.Time
}
