package entity

import "time"

// CheckoutSession is the signed gateway handoff staged for one pending donation.
type CheckoutSession struct {
	PaymentID string            `json:"payment_id"`
	Provider  string            `json:"provider"`
	Action    string            `json:"action"`
	Params    map[string]string `json:"params"`
	CreatedAt time.Time         `json:"created_at"`
}
