package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type DonationFilter struct {
	Status     string
	CategoryID uint64
	EventID    uint64
	Email      string
	Limit      int32
	Offset     int32
}

// DonationTransition describes a pending -> terminal move of one donation.
type DonationTransition struct {
	PaymentID        string
	Status           string
	GatewayPaymentID *string
	GatewayResponse  *string
	InvoiceNumber    *string
	UpdatedAt        time.Time
}

const donationColumns = `
	id, user_id, category_id, event_id, card_id, amount,
	name, email, phone, address, pan_card, message,
	payment_id, gateway_payment_id, status, payment_gateway_response, invoice_number,
	receipt_sent, notification_sent, created_at, updated_at
`

type DonationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	query := `
		INSERT INTO donations (
			user_id, category_id, event_id, card_id, amount,
			name, email, phone, address, pan_card, message,
			payment_id, gateway_payment_id, status, payment_gateway_response, invoice_number,
			receipt_sent, notification_sent, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(donation.UserID),
		nullableUint64Value(donation.CategoryID),
		nullableUint64Value(donation.EventID),
		nullableUint64Value(donation.CardID),
		donation.Amount,
		donation.Name,
		donation.Email,
		donation.Phone,
		nullableStringValue(donation.Address),
		nullableStringValue(donation.PanCard),
		nullableStringValue(donation.Message),
		donation.PaymentID,
		nullableStringValue(donation.GatewayPaymentID),
		donation.Status,
		nullableStringValue(donation.PaymentGatewayResponse),
		nullableStringValue(donation.InvoiceNumber),
		donation.ReceiptSent,
		donation.NotificationSent,
		donation.CreatedAt,
		donation.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	donation.ID = uint64(id)
	return nil
}

// TransitionStatus moves a pending donation to a terminal status. It reports
// false when the row was not pending anymore (or does not exist), in which
// case nothing was written.
func (r *DonationRepository) TransitionStatus(ctx context.Context, transition DonationTransition) (bool, error) {
	query := `
		UPDATE donations SET
			status = ?,
			gateway_payment_id = COALESCE(?, gateway_payment_id),
			payment_gateway_response = COALESCE(?, payment_gateway_response),
			invoice_number = COALESCE(?, invoice_number),
			updated_at = ?
		WHERE payment_id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		transition.Status,
		nullableStringValue(transition.GatewayPaymentID),
		nullableStringValue(transition.GatewayResponse),
		nullableStringValue(transition.InvoiceNumber),
		transition.UpdatedAt,
		transition.PaymentID,
		entity.DonationStatusPending,
	)
	if err != nil {
		return false, translateWriteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// MarkReceiptSent flips receipt_sent from 0 to 1. It reports false when
// another caller already did.
func (r *DonationRepository) MarkReceiptSent(ctx context.Context, id uint64, now time.Time) (bool, error) {
	return r.setFlag(ctx, "receipt_sent", id, true, now)
}

// UnmarkReceiptSent releases a receipt claim after a failed delivery.
func (r *DonationRepository) UnmarkReceiptSent(ctx context.Context, id uint64, now time.Time) error {
	_, err := r.setFlag(ctx, "receipt_sent", id, false, now)
	return err
}

func (r *DonationRepository) MarkNotificationSent(ctx context.Context, id uint64, now time.Time) (bool, error) {
	return r.setFlag(ctx, "notification_sent", id, true, now)
}

func (r *DonationRepository) UnmarkNotificationSent(ctx context.Context, id uint64, now time.Time) error {
	_, err := r.setFlag(ctx, "notification_sent", id, false, now)
	return err
}

func (r *DonationRepository) setFlag(ctx context.Context, column string, id uint64, value bool, now time.Time) (bool, error) {
	query := "UPDATE donations SET " + column + " = ?, updated_at = ? WHERE id = ? AND " + column + " = ?"

	result, err := r.db.ExecContext(ctx, query, value, now, id, !value)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *DonationRepository) FindByID(ctx context.Context, id uint64) (*entity.Donation, error) {
	query := "SELECT " + donationColumns + " FROM donations WHERE id = ?"

	donation := &entity.Donation{}
	if err := scanDonation(r.db.QueryRowContext(ctx, query, id), donation); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return donation, nil
}

func (r *DonationRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.Donation, error) {
	query := "SELECT " + donationColumns + " FROM donations WHERE payment_id = ? LIMIT 1"

	donation := &entity.Donation{}
	if err := scanDonation(r.db.QueryRowContext(ctx, query, paymentID), donation); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return donation, nil
}

func (r *DonationRepository) List(ctx context.Context, filter DonationFilter) ([]*entity.Donation, error) {
	query := "SELECT " + donationColumns + " FROM donations"

	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)

	if strings.TrimSpace(filter.Status) != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.CategoryID > 0 {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.EventID > 0 {
		conditions = append(conditions, "event_id = ?")
		args = append(args, filter.EventID)
	}
	if strings.TrimSpace(filter.Email) != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, filter.Email)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	return r.queryDonations(ctx, query, args...)
}

// ListPendingBefore returns donations still pending that were created at or before cutoff.
func (r *DonationRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error) {
	query := "SELECT " + donationColumns + `
		FROM donations
		WHERE status = ?
		  AND created_at <= ?
		ORDER BY created_at ASC
		LIMIT ?
	`
	return r.queryDonations(ctx, query, entity.DonationStatusPending, cutoff, limit)
}

// ListReceiptPending returns completed donations whose receipt was never delivered.
func (r *DonationRepository) ListReceiptPending(ctx context.Context, limit int32) ([]*entity.Donation, error) {
	query := "SELECT " + donationColumns + `
		FROM donations
		WHERE status = ?
		  AND receipt_sent = 0
		ORDER BY updated_at ASC
		LIMIT ?
	`
	return r.queryDonations(ctx, query, entity.DonationStatusCompleted, limit)
}

func (r *DonationRepository) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(db DBTX) error {
		if _, err := db.ExecContext(ctx, "UPDATE donation_callbacks SET donation_id = NULL WHERE donation_id = ?", id); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, "DELETE FROM donation_events WHERE donation_id = ?", id); err != nil {
			return err
		}

		result, err := db.ExecContext(ctx, "DELETE FROM donations WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *DonationRepository) queryDonations(ctx context.Context, query string, args ...interface{}) ([]*entity.Donation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]*entity.Donation, 0)
	for rows.Next() {
		item := &entity.Donation{}
		if err := scanDonation(rows, item); err != nil {
			return nil, err
		}
		donations = append(donations, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return donations, nil
}

func scanDonation(scan rowScanner, donation *entity.Donation) error {
	var userID sql.NullInt64
	var categoryID sql.NullInt64
	var eventID sql.NullInt64
	var cardID sql.NullInt64
	var address sql.NullString
	var panCard sql.NullString
	var message sql.NullString
	var gatewayPaymentID sql.NullString
	var gatewayResponse sql.NullString
	var invoiceNumber sql.NullString

	err := scan.Scan(
		&donation.ID,
		&userID,
		&categoryID,
		&eventID,
		&cardID,
		&donation.Amount,
		&donation.Name,
		&donation.Email,
		&donation.Phone,
		&address,
		&panCard,
		&message,
		&donation.PaymentID,
		&gatewayPaymentID,
		&donation.Status,
		&gatewayResponse,
		&invoiceNumber,
		&donation.ReceiptSent,
		&donation.NotificationSent,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	)
	if err != nil {
		return err
	}

	donation.UserID = uint64PtrFromNull(userID)
	donation.CategoryID = uint64PtrFromNull(categoryID)
	donation.EventID = uint64PtrFromNull(eventID)
	donation.CardID = uint64PtrFromNull(cardID)
	donation.Address = stringPtrFromNull(address)
	donation.PanCard = stringPtrFromNull(panCard)
	donation.Message = stringPtrFromNull(message)
	donation.GatewayPaymentID = stringPtrFromNull(gatewayPaymentID)
	donation.PaymentGatewayResponse = stringPtrFromNull(gatewayResponse)
	donation.InvoiceNumber = stringPtrFromNull(invoiceNumber)

	return nil
}
