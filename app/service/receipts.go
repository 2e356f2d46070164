package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/mailer"
	"github.com/vibast-solutions/ms-go-donations/app/receipt"
	"github.com/vibast-solutions/ms-go-donations/app/types"
	"github.com/vibast-solutions/ms-go-donations/config"
)

type receiptDonationRepository interface {
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.Donation, error)
	ListReceiptPending(ctx context.Context, limit int32) ([]*entity.Donation, error)
	MarkReceiptSent(ctx context.Context, id uint64, now time.Time) (bool, error)
	UnmarkReceiptSent(ctx context.Context, id uint64, now time.Time) error
	MarkNotificationSent(ctx context.Context, id uint64, now time.Time) (bool, error)
	UnmarkNotificationSent(ctx context.Context, id uint64, now time.Time) error
}

type receiptRenderer interface {
	HTML(data *receipt.Data) ([]byte, error)
	PNG(data *receipt.Data) ([]byte, error)
}

type mailSender interface {
	Send(ctx context.Context, msg *mailer.Message) error
}

type ReceiptService struct {
	donationRepo receiptDonationRepository
	categories   entityFinder[entity.DonationCategory]
	events       entityFinder[entity.Event]
	renderer     receiptRenderer
	mail         mailSender
	receiptsCfg  config.ReceiptsConfig
	adminAddress string
	batchSize    int32
	logger       logrus.FieldLogger
}

func NewReceiptService(
	donationRepo receiptDonationRepository,
	catalog DonationCatalog,
	renderer receiptRenderer,
	mail mailSender,
	cfg *config.Config,
) *ReceiptService {
	batchSize := cfg.Jobs.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &ReceiptService{
		donationRepo: donationRepo,
		categories:   catalog.Categories,
		events:       catalog.Events,
		renderer:     renderer,
		mail:         mail,
		receiptsCfg:  cfg.Receipts,
		adminAddress: strings.TrimSpace(cfg.Mail.AdminAddress),
		batchSize:    batchSize,
		logger:       factory.NewModuleLogger("receipt_service"),
	}
}

// Render produces the receipt of a completed donation as PNG or HTML.
func (s *ReceiptService) Render(ctx context.Context, txnID, format string) ([]byte, string, error) {
	donation, err := s.donationRepo.FindByPaymentID(ctx, strings.TrimSpace(txnID))
	if err != nil {
		return nil, "", err
	}
	if donation == nil {
		return nil, "", ErrDonationNotFound
	}
	if donation.Status != entity.DonationStatusCompleted {
		return nil, "", ErrReceiptUnavailable
	}

	data, err := s.receiptData(ctx, donation)
	if err != nil {
		return nil, "", err
	}

	if format == types.ReceiptFormatHTML {
		out, err := s.renderer.HTML(data)
		return out, receipt.ContentTypeHTML, err
	}
	out, err := s.renderer.PNG(data)
	return out, receipt.ContentTypePNG, err
}

// DonationCompleted delivers the donor receipt and the office notification.
// Delivery failures are logged and left for the receipts job.
func (s *ReceiptService) DonationCompleted(ctx context.Context, donation *entity.Donation) {
	logger := s.logger.WithField("txnid", donation.PaymentID)
	if err := s.SendReceipt(ctx, donation); err != nil {
		logger.WithError(err).Warn("receipt_delivery_failed")
	}
	if err := s.SendAdminNotification(ctx, donation); err != nil {
		logger.WithError(err).Warn("admin_notification_failed")
	}
}

// SendReceipt mails the receipt once. The receipt_sent flag is claimed before
// sending and released again if delivery fails.
func (s *ReceiptService) SendReceipt(ctx context.Context, donation *entity.Donation) error {
	if donation.Status != entity.DonationStatusCompleted {
		return ErrReceiptUnavailable
	}

	claimed, err := s.donationRepo.MarkReceiptSent(ctx, donation.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	if err := s.deliverReceipt(ctx, donation); err != nil {
		if releaseErr := s.donationRepo.UnmarkReceiptSent(ctx, donation.ID, time.Now().UTC()); releaseErr != nil {
			s.logger.WithError(releaseErr).WithField("txnid", donation.PaymentID).Error("receipt_claim_release_failed")
		}
		return err
	}
	return nil
}

func (s *ReceiptService) SendAdminNotification(ctx context.Context, donation *entity.Donation) error {
	if s.adminAddress == "" {
		return nil
	}

	claimed, err := s.donationRepo.MarkNotificationSent(ctx, donation.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	data, err := s.receiptData(ctx, donation)
	if err == nil {
		err = s.mail.Send(ctx, &mailer.Message{
			To:       s.adminAddress,
			Subject:  fmt.Sprintf("New donation %s of %s", data.InvoiceNumber, data.AmountText()),
			HTMLBody: notificationBody(data),
		})
	}
	if err != nil {
		if releaseErr := s.donationRepo.UnmarkNotificationSent(ctx, donation.ID, time.Now().UTC()); releaseErr != nil {
			s.logger.WithError(releaseErr).WithField("txnid", donation.PaymentID).Error("notification_claim_release_failed")
		}
		return err
	}
	return nil
}

// RunReceiptDispatchBatch retries receipts of completed donations never delivered.
func (s *ReceiptService) RunReceiptDispatchBatch(ctx context.Context) error {
	items, err := s.donationRepo.ListReceiptPending(ctx, s.batchSize)
	if err != nil {
		return err
	}

	var firstErr error
	for _, donation := range items {
		if donation == nil {
			continue
		}
		if err := s.SendReceipt(ctx, donation); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}
	return firstErr
}

func (s *ReceiptService) deliverReceipt(ctx context.Context, donation *entity.Donation) error {
	data, err := s.receiptData(ctx, donation)
	if err != nil {
		return err
	}
	image, err := s.renderer.PNG(data)
	if err != nil {
		return err
	}
	body, err := s.renderer.HTML(data)
	if err != nil {
		return err
	}

	return s.mail.Send(ctx, &mailer.Message{
		To:       donation.Email,
		Subject:  fmt.Sprintf("%s donation receipt %s", data.TempleName, data.InvoiceNumber),
		HTMLBody: string(body),
		Attachments: []mailer.Attachment{
			{Filename: "receipt-" + donation.PaymentID + ".png", ContentType: receipt.ContentTypePNG, Data: image},
		},
	})
}

func (s *ReceiptService) receiptData(ctx context.Context, donation *entity.Donation) (*receipt.Data, error) {
	purpose, err := s.purpose(ctx, donation)
	if err != nil {
		return nil, err
	}

	data := &receipt.Data{
		TempleName:    s.receiptsCfg.TempleName,
		TempleAddress: s.receiptsCfg.TempleAddress,
		TransactionID: donation.PaymentID,
		DonorName:     donation.Name,
		Email:         donation.Email,
		Phone:         donation.Phone,
		Purpose:       purpose,
		Amount:        donation.Amount,
		PaidAt:        donation.UpdatedAt,
	}
	if donation.InvoiceNumber != nil {
		data.InvoiceNumber = *donation.InvoiceNumber
	}
	if donation.GatewayPaymentID != nil {
		data.GatewayPaymentID = *donation.GatewayPaymentID
	}
	if donation.PanCard != nil {
		data.PanCard = *donation.PanCard
	}
	if donation.Address != nil {
		data.Address = *donation.Address
	}
	return data, nil
}

func (s *ReceiptService) purpose(ctx context.Context, donation *entity.Donation) (string, error) {
	if donation.EventID != nil {
		event, err := s.events.FindByID(ctx, *donation.EventID)
		if err != nil {
			return "", err
		}
		if event != nil {
			return event.Title, nil
		}
	}
	if donation.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *donation.CategoryID)
		if err != nil {
			return "", err
		}
		if category != nil {
			return category.Name, nil
		}
	}
	return "General donation", nil
}

func notificationBody(data *receipt.Data) string {
	return fmt.Sprintf(
		"<p>A donation was completed.</p><ul><li>Receipt: %s</li><li>Donor: %s (%s, %s)</li><li>Towards: %s</li><li>Amount: %s</li><li>Transaction: %s</li></ul>",
		html.EscapeString(data.InvoiceNumber),
		html.EscapeString(data.DonorName),
		html.EscapeString(data.Email),
		html.EscapeString(data.Phone),
		html.EscapeString(data.Purpose),
		html.EscapeString(data.AmountText()),
		html.EscapeString(data.TransactionID),
	)
}
