package mapper

import (
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

func TestDonationToResponseHidesGatewayPayload(t *testing.T) {
	categoryID := uint64(3)
	payload := `{"status":"success"}`
	item := &entity.Donation{
		ID:                     9,
		CategoryID:             &categoryID,
		Amount:                 501,
		Name:                   "Asha",
		PaymentID:              "TMPabc",
		Status:                 entity.DonationStatusCompleted,
		PaymentGatewayResponse: &payload,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}

	public := DonationToResponse(item)
	if public.GatewayResponse != nil {
		t.Fatal("expected public response to omit gateway payload")
	}
	if public.CategoryID == nil || *public.CategoryID != 3 {
		t.Fatalf("unexpected category id: %v", public.CategoryID)
	}

	categoryID = 4
	if *public.CategoryID != 3 {
		t.Fatal("expected response to own its copy of category id")
	}

	admin := DonationToAdminResponse(item)
	if string(admin.GatewayResponse) != payload {
		t.Fatalf("unexpected admin gateway payload: %s", admin.GatewayResponse)
	}
}

func TestCheckoutToGatewayForm(t *testing.T) {
	session := &entity.CheckoutSession{Action: "https://test.payu.in/_payment", Params: map[string]string{"txnid": "TMPabc"}}
	form := CheckoutToGatewayForm(session)
	if form.Method != "POST" || form.Params["txnid"] != "TMPabc" {
		t.Fatalf("unexpected form: %+v", form)
	}

	form.Params["txnid"] = "changed"
	if session.Params["txnid"] != "TMPabc" {
		t.Fatal("expected params to be copied")
	}
}

func TestDonationDetailsToResponse(t *testing.T) {
	eventID := uint64(2)
	cardID := uint64(9)
	details := &entity.DonationDetails{
		Donation:  &entity.Donation{ID: 5, EventID: &eventID, CardID: &cardID, PaymentID: "TMPevent"},
		Event:     &entity.Event{ID: 2, Title: "Maha Shivaratri"},
		EventCard: &entity.EventDonationCard{ID: 9, EventID: 2, Label: "Abhishekam", Amount: 1001},
	}

	resp := DonationDetailsToResponse(details)
	if resp.Type != entity.DonationTargetEvent {
		t.Fatalf("expected event type, got %s", resp.Type)
	}
	if resp.Card == nil || resp.Card.EventID == nil || *resp.Card.EventID != 2 || resp.Card.CategoryID != nil {
		t.Fatalf("unexpected card %+v", resp.Card)
	}
	if resp.Event.Title != "Maha Shivaratri" || resp.Category != nil {
		t.Fatalf("unexpected target %+v / %+v", resp.Event, resp.Category)
	}
	if DonationDetailsToResponse(nil) != nil {
		t.Fatal("expected nil for nil details")
	}
}
