package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type DonationCallbackRepository struct {
	db DBTX
}

func NewDonationCallbackRepository(db DBTX) *DonationCallbackRepository {
	return &DonationCallbackRepository{db: db}
}

func (r *DonationCallbackRepository) Create(ctx context.Context, callback *entity.DonationCallback) error {
	query := `
		INSERT INTO donation_callbacks (
			donation_id, provider, payment_id, reported_status, payload_json, status, error, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(callback.DonationID),
		callback.Provider,
		callback.PaymentID,
		callback.ReportedStatus,
		callback.PayloadJSON,
		callback.Status,
		nullableStringValue(callback.Error),
		callback.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	callback.ID = uint64(id)

	return nil
}
