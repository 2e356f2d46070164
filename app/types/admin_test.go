package types

import (
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

func TestCategoryPayloadDefaultsActive(t *testing.T) {
	payload := &CategoryPayload{Name: " Annadanam ", SuggestedAmounts: []int64{101, 501}}
	if err := payload.Validate(); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	item := &entity.DonationCategory{}
	payload.ApplyTo(item)
	if item.Name != "Annadanam" || !item.IsActive {
		t.Fatalf("unexpected category: %+v", item)
	}

	payload.SuggestedAmounts = []int64{101, 0}
	if err := payload.Validate(); err == nil {
		t.Fatal("expected non-positive suggested amount to fail")
	}
}

func TestEventPayloadRejectsInvertedDates(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	payload := &EventPayload{Title: "Maha Shivaratri", StartDate: start, EndDate: &end}
	if err := payload.Validate(); err == nil {
		t.Fatal("expected end_date error")
	}

	payload.EndDate = nil
	if err := payload.Validate(); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestDonationCardPayloadRequiresCategory(t *testing.T) {
	payload := &DonationCardPayload{Label: "Annadanam for 10", Amount: 1001}
	err := payload.Validate()
	if err == nil || err.Error() != "category_id is required" {
		t.Fatalf("expected category_id error, got %v", err)
	}
}

func TestBankDetailsPayloadNormalizesIFSC(t *testing.T) {
	payload := &CategoryBankDetailsPayload{
		CategoryID: 3,
		BankAccountPayload: BankAccountPayload{
			AccountName:   "Temple Trust",
			AccountNumber: "001234567890",
			BankName:      "State Bank",
			IFSC:          " sbin0001234 ",
		},
	}
	if err := payload.Validate(); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	item := &entity.CategoryBankDetails{}
	payload.ApplyTo(item)
	if item.IFSC != "SBIN0001234" || item.CategoryID != 3 {
		t.Fatalf("unexpected bank details: %+v", item)
	}

	payload.IFSC = "SBIN1234"
	if err := payload.Validate(); err == nil {
		t.Fatal("expected invalid IFSC error")
	}
}

func TestBlogPostPayloadDerivesSlug(t *testing.T) {
	payload := &BlogPostPayload{Title: "Guru Purnima 2026: Schedule!", Content: "...", Published: true}
	if err := payload.Validate(); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if payload.Slug != "guru-purnima-2026-schedule" {
		t.Fatalf("unexpected slug: %s", payload.Slug)
	}

	item := &entity.BlogPost{}
	payload.ApplyTo(item)
	if item.PublishedAt == nil {
		t.Fatal("expected published_at to be set for a published post")
	}
}

func TestUserPayloadValidate(t *testing.T) {
	payload := &UserPayload{Name: "Priya", Email: "PRIYA@example.com", Role: "superuser"}
	if err := payload.Validate(); err == nil {
		t.Fatal("expected invalid role error")
	}

	payload.Role = ""
	if err := payload.Validate(); err != nil {
		t.Fatalf("expected default role to validate, got %v", err)
	}
	if payload.Role != entity.UserRoleUser || payload.Email != "priya@example.com" {
		t.Fatalf("unexpected normalized payload: %+v", payload)
	}

	payload.Password = "short"
	if err := payload.Validate(); err == nil {
		t.Fatal("expected short password error")
	}
}
