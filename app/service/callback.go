package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/gateway"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type ReconcileResult struct {
	Donation *entity.Donation
	Changed  bool
}

// transition is one requested move of a pending donation to a final status.
type transition struct {
	status           string
	eventType        string
	source           string
	gatewayPaymentID string
	payload          *string
}

// Reconcile applies a signed gateway report to the donation it names. Replays of
// an already applied report succeed without side effects.
func (s *DonationService) Reconcile(ctx context.Context, req *types.ProviderCallbackRequest) (*ReconcileResult, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"provider":   req.Provider,
		"txnid":      req.TransactionID(),
		"request_id": req.RequestID,
	})

	provider, err := s.providerReg.Get(req.Provider)
	if err != nil {
		if errors.Is(err, gateway.ErrProviderNotSupported) {
			return nil, ErrProviderUnsupported
		}
		return nil, err
	}

	parsed, err := provider.VerifyAndParseCallback(ctx, req.Fields)
	if err != nil {
		logger.WithError(err).Warn("gateway_callback_tampered")
		s.persistRejectedCallback(ctx, nil, req, "", fmt.Sprintf("callback validation failed: %v", err))
		return nil, ErrCallbackRejected
	}

	donation, err := s.donationRepo.FindByPaymentID(ctx, parsed.TransactionID)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		logger.Info("gateway_callback_unknown_transaction")
		s.persistRejectedCallback(ctx, nil, req, parsed.ReportedStatus, "donation not found for txnid")
		return nil, ErrDonationNotFound
	}

	donationID := donation.ID
	if !parsed.Amount.Equal(decimal.NewFromInt(donation.Amount)) {
		logger.WithFields(logrus.Fields{
			"expected_amount": donation.Amount,
			"reported_amount": parsed.Amount.String(),
		}).Warn("gateway_callback_amount_mismatch")
		s.persistRejectedCallback(ctx, &donationID, req, parsed.ReportedStatus, "amount mismatch")
		return nil, ErrCallbackRejected
	}

	if !entity.IsTerminalDonationStatus(parsed.Status) {
		_ = s.persistProcessedCallback(ctx, donationID, req, parsed.ReportedStatus)
		return &ReconcileResult{Donation: donation}, nil
	}

	payload := req.Payload
	updated, changed, err := s.applyTransition(ctx, donation, transition{
		status:           parsed.Status,
		eventType:        entity.DonationEventReconciled,
		source:           "callback:" + provider.Code(),
		gatewayPaymentID: parsed.GatewayPaymentID,
		payload:          &payload,
	})
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			logger.WithField("current_status", updated.Status).Warn("gateway_callback_status_conflict")
			s.persistRejectedCallback(ctx, &donationID, req, parsed.ReportedStatus, "donation already has a different final status")
		}
		return nil, err
	}

	if err := s.persistProcessedCallback(ctx, donationID, req, parsed.ReportedStatus); err != nil {
		return nil, err
	}

	return &ReconcileResult{Donation: updated, Changed: changed}, nil
}

// applyTransition performs the single pending -> final write. Only the caller whose
// write changed the row sees changed=true and triggers the follow-ups.
func (s *DonationService) applyTransition(ctx context.Context, donation *entity.Donation, t transition) (*entity.Donation, bool, error) {
	now := time.Now().UTC()

	var invoice *string
	if t.status == entity.DonationStatusCompleted {
		number := s.invoiceNumber(donation, now)
		invoice = &number
	}

	var gatewayPaymentID *string
	if strings.TrimSpace(t.gatewayPaymentID) != "" {
		value := strings.TrimSpace(t.gatewayPaymentID)
		gatewayPaymentID = &value
	}

	changed, err := s.donationRepo.TransitionStatus(ctx, repository.DonationTransition{
		PaymentID:        donation.PaymentID,
		Status:           t.status,
		GatewayPaymentID: gatewayPaymentID,
		GatewayResponse:  t.payload,
		InvoiceNumber:    invoice,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, false, err
	}

	current, err := s.donationRepo.FindByPaymentID(ctx, donation.PaymentID)
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		return nil, false, ErrDonationNotFound
	}

	if !changed {
		if current.Status == t.status {
			return current, false, nil
		}
		return current, false, ErrStatusConflict
	}

	oldStatus := donation.Status
	_ = s.eventRepo.Create(ctx, &entity.DonationEvent{
		DonationID:  current.ID,
		EventType:   t.eventType,
		OldStatus:   &oldStatus,
		NewStatus:   current.Status,
		Source:      t.source,
		PayloadJSON: t.payload,
		CreatedAt:   now,
	})

	if err := s.checkoutRepo.Delete(ctx, current.PaymentID); err != nil {
		s.logger.WithError(err).WithField("txnid", current.PaymentID).Warn("checkout_cleanup_failed")
	}

	if current.Status == entity.DonationStatusCompleted && s.notifier != nil {
		s.notifier.DonationCompleted(ctx, current)
	}

	return current, true, nil
}

func (s *DonationService) persistProcessedCallback(ctx context.Context, donationID uint64, req *types.ProviderCallbackRequest, reportedStatus string) error {
	return s.callbackRepo.Create(ctx, &entity.DonationCallback{
		DonationID:     &donationID,
		Provider:       req.Provider,
		PaymentID:      req.TransactionID(),
		ReportedStatus: reportedStatus,
		PayloadJSON:    req.Payload,
		Status:         entity.DonationCallbackProcessed,
		CreatedAt:      time.Now().UTC(),
	})
}

func (s *DonationService) persistRejectedCallback(
	ctx context.Context,
	donationID *uint64,
	req *types.ProviderCallbackRequest,
	reportedStatus string,
	reason string,
) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "callback rejected"
	}
	if reportedStatus == "" {
		reportedStatus = strings.TrimSpace(req.Fields["status"])
	}
	trimmedErr := truncate(reason, 1024)
	_ = s.callbackRepo.Create(ctx, &entity.DonationCallback{
		DonationID:     donationID,
		Provider:       req.Provider,
		PaymentID:      truncate(req.TransactionID(), 64),
		ReportedStatus: truncate(reportedStatus, 64),
		PayloadJSON:    req.Payload,
		Status:         entity.DonationCallbackRejected,
		Error:          &trimmedErr,
		CreatedAt:      time.Now().UTC(),
	})
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
