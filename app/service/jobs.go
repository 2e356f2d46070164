package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

// RunReconcilePendingBatch asks the gateway about donations left pending past the
// stale window. Transactions the gateway never saw are marked failed.
func (s *DonationService) RunReconcilePendingBatch(ctx context.Context) error {
	provider, err := s.providerReg.Default()
	if err != nil {
		return ErrProviderUnsupported
	}

	cutoff := time.Now().UTC().Add(-s.jobsCfg.PendingStaleAfter)
	items, err := s.donationRepo.ListPendingBefore(ctx, cutoff, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, donation := range items {
		if donation == nil || donation.Status != entity.DonationStatusPending {
			continue
		}

		result, err := provider.GetTransactionStatus(ctx, donation.PaymentID)
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}

		t := transition{
			eventType: entity.DonationEventReconciled,
			source:    "job:" + provider.Code(),
		}
		if result == nil {
			t.status = entity.DonationStatusFailed
			t.eventType = entity.DonationEventExpired
		} else {
			if !entity.IsTerminalDonationStatus(result.Status) {
				continue
			}
			if !result.Amount.Equal(decimal.NewFromInt(donation.Amount)) {
				s.logger.WithField("txnid", donation.PaymentID).Warn("gateway_status_amount_mismatch")
				firstErr = keepFirstErr(firstErr, fmt.Errorf("%w: amount mismatch for %s", ErrCallbackRejected, donation.PaymentID))
				continue
			}
			t.status = result.Status
			t.gatewayPaymentID = result.GatewayPaymentID
			if encoded, err := json.Marshal(result); err == nil {
				payload := string(encoded)
				t.payload = &payload
			}
		}

		if _, _, err := s.applyTransition(ctx, donation, t); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func (s *DonationService) batchSize() int32 {
	if s.jobsCfg.BatchSize > 0 {
		return s.jobsCfg.BatchSize
	}
	return defaultBatchSize
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
