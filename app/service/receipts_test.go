package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/receipt"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

func newTestReceiptService(repo *serviceDonationRepo, mail *serviceMailer) *ReceiptService {
	catalog := newServiceCatalog()
	catalog.categories.put(&entity.DonationCategory{ID: 3, Name: "Annadanam", IsActive: true})
	return NewReceiptService(repo, catalog.donationCatalog(), serviceRenderer{}, mail, testConfig())
}

func completedDonation(repo *serviceDonationRepo) *entity.Donation {
	invoice := "TMPL-2026-000001"
	donation := &entity.Donation{
		CategoryID:    uint64Ptr(3),
		Amount:        501,
		Name:          "Asha",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		PaymentID:     "TMPcompleted",
		Status:        entity.DonationStatusCompleted,
		InvoiceNumber: &invoice,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	repo.set(donation)
	stored, _ := repo.FindByPaymentID(context.Background(), donation.PaymentID)
	return stored
}

func TestRenderReceiptRequiresCompletedDonation(t *testing.T) {
	repo := newServiceDonationRepo()
	svc := newTestReceiptService(repo, &serviceMailer{})
	repo.set(&entity.Donation{PaymentID: "TMPpending", Amount: 501, Status: entity.DonationStatusPending})

	if _, _, err := svc.Render(context.Background(), "TMPpending", types.ReceiptFormatPNG); !errors.Is(err, ErrReceiptUnavailable) {
		t.Fatalf("expected ErrReceiptUnavailable, got %v", err)
	}
	if _, _, err := svc.Render(context.Background(), "TMPmissing", types.ReceiptFormatPNG); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected ErrDonationNotFound, got %v", err)
	}
}

func TestRenderReceiptFormats(t *testing.T) {
	repo := newServiceDonationRepo()
	svc := newTestReceiptService(repo, &serviceMailer{})
	completedDonation(repo)

	body, contentType, err := svc.Render(context.Background(), "TMPcompleted", types.ReceiptFormatHTML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if contentType != receipt.ContentTypeHTML || !strings.Contains(string(body), "TMPL-2026-000001") {
		t.Fatalf("unexpected html receipt %q (%s)", body, contentType)
	}

	_, contentType, err = svc.Render(context.Background(), "TMPcompleted", types.ReceiptFormatPNG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if contentType != receipt.ContentTypePNG {
		t.Fatalf("expected png content type, got %s", contentType)
	}
}

func TestSendReceiptDeliversOnce(t *testing.T) {
	repo := newServiceDonationRepo()
	mail := &serviceMailer{}
	svc := newTestReceiptService(repo, mail)
	donation := completedDonation(repo)

	for i := 0; i < 2; i++ {
		if err := svc.SendReceipt(context.Background(), donation); err != nil {
			t.Fatalf("SendReceipt() error = %v", err)
		}
	}

	if len(mail.sent) != 1 {
		t.Fatalf("expected one receipt mail, got %d", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.To != "asha@example.com" || !strings.Contains(msg.Subject, "TMPL-2026-000001") {
		t.Fatalf("unexpected receipt mail %+v", msg)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "receipt-TMPcompleted.png" {
		t.Fatalf("unexpected attachments %+v", msg.Attachments)
	}
}

func TestSendReceiptReleasesClaimOnFailure(t *testing.T) {
	repo := newServiceDonationRepo()
	mail := &serviceMailer{err: errors.New("smtp down")}
	svc := newTestReceiptService(repo, mail)
	donation := completedDonation(repo)

	if err := svc.SendReceipt(context.Background(), donation); err == nil {
		t.Fatal("expected delivery error")
	}
	stored, _ := repo.FindByID(context.Background(), donation.ID)
	if stored.ReceiptSent {
		t.Fatal("failed delivery must release the receipt claim")
	}

	mail.err = nil
	if err := svc.RunReceiptDispatchBatch(context.Background()); err != nil {
		t.Fatalf("RunReceiptDispatchBatch() error = %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected the job to deliver the receipt, got %d mails", len(mail.sent))
	}
	stored, _ = repo.FindByID(context.Background(), donation.ID)
	if !stored.ReceiptSent {
		t.Fatal("expected receipt to be marked sent")
	}
}

func TestSendReceiptRejectsPendingDonation(t *testing.T) {
	repo := newServiceDonationRepo()
	svc := newTestReceiptService(repo, &serviceMailer{})

	err := svc.SendReceipt(context.Background(), &entity.Donation{ID: 1, Status: entity.DonationStatusPending})
	if !errors.Is(err, ErrReceiptUnavailable) {
		t.Fatalf("expected ErrReceiptUnavailable, got %v", err)
	}
}

func TestDonationCompletedNotifiesDonorAndOffice(t *testing.T) {
	repo := newServiceDonationRepo()
	mail := &serviceMailer{}
	svc := newTestReceiptService(repo, mail)
	donation := completedDonation(repo)

	svc.DonationCompleted(context.Background(), donation)
	svc.DonationCompleted(context.Background(), donation)

	if len(mail.sent) != 2 {
		t.Fatalf("expected receipt and office notification, got %d mails", len(mail.sent))
	}
	office := mail.sent[1]
	if office.To != "office@temple.example" || !strings.Contains(office.HTMLBody, "Annadanam") {
		t.Fatalf("unexpected office notification %+v", office)
	}
}

func TestReconcileWithReceiptsSendsSingleReceipt(t *testing.T) {
	f := newDonationFixture("")
	mail := &serviceMailer{}
	receipts := NewReceiptService(f.donations, f.catalog.donationCatalog(), serviceRenderer{}, mail, testConfig())
	f.svc.notifier = receipts

	_, session, err := f.svc.Initiate(context.Background(), ashaRequest())
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	req := callbackRequest(signedFields(session, "success", "501.00"))
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Reconcile(context.Background(), req); err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
	}

	donorMails := 0
	for _, msg := range mail.sent {
		if msg.To == "asha@example.com" {
			donorMails++
		}
	}
	if donorMails != 1 {
		t.Fatalf("expected exactly one receipt, got %d", donorMails)
	}
}
