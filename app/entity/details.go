package entity

// DonationDetails is a donation joined with everything it references.
type DonationDetails struct {
	Donation     *Donation
	User         *User
	Category     *DonationCategory
	Event        *Event
	CategoryCard *DonationCard
	EventCard    *EventDonationCard
}

type CategoryDetails struct {
	Category    *DonationCategory      `json:"category"`
	Cards       []*DonationCard        `json:"cards"`
	BankDetails []*CategoryBankDetails `json:"bank_details"`
}

type EventDetails struct {
	Event       *Event               `json:"event"`
	Cards       []*EventDonationCard `json:"cards"`
	BankDetails []*EventBankDetails  `json:"bank_details"`
}
