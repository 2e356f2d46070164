package repository

import (
	"database/sql"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

func NewCategoryRepository(db DBTX) *CRUDRepository[entity.DonationCategory] {
	return newCRUDRepository(db, table[entity.DonationCategory]{
		name:         "donation_categories",
		columns:      []string{"name", "description", "image_url", "suggested_amounts", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, id ASC",
		activeColumn: "is_active",
		beforeDelete: []string{
			"UPDATE donations SET card_id = NULL WHERE category_id = ? AND event_id IS NULL",
			"UPDATE donations SET category_id = NULL WHERE category_id = ?",
			"DELETE FROM donation_cards WHERE category_id = ?",
			"DELETE FROM category_bank_details WHERE category_id = ?",
		},
		id:    func(c *entity.DonationCategory) uint64 { return c.ID },
		setID: func(c *entity.DonationCategory, id uint64) { c.ID = id },
		values: func(c *entity.DonationCategory) ([]interface{}, error) {
			amounts, err := serializeAmounts(c.SuggestedAmounts)
			if err != nil {
				return nil, err
			}
			return []interface{}{c.Name, c.Description, c.ImageURL, amounts, c.IsActive, c.DisplayOrder, c.CreatedAt, c.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, c *entity.DonationCategory) error {
			var amounts string
			if err := scan.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &amounts, &c.IsActive, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return err
			}
			parsed, err := parseAmounts(amounts)
			if err != nil {
				return err
			}
			c.SuggestedAmounts = parsed
			return nil
		},
	})
}

func NewEventRepository(db DBTX) *CRUDRepository[entity.Event] {
	return newCRUDRepository(db, table[entity.Event]{
		name:         "events",
		columns:      []string{"title", "description", "image_url", "location", "start_date", "end_date", "suggested_amounts", "donation_enabled", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, start_date DESC",
		activeColumn: "is_active",
		beforeDelete: []string{
			"UPDATE donations SET card_id = NULL WHERE event_id = ?",
			"UPDATE donations SET event_id = NULL WHERE event_id = ?",
			"DELETE FROM event_donation_cards WHERE event_id = ?",
			"DELETE FROM event_bank_details WHERE event_id = ?",
		},
		id:    func(e *entity.Event) uint64 { return e.ID },
		setID: func(e *entity.Event, id uint64) { e.ID = id },
		values: func(e *entity.Event) ([]interface{}, error) {
			amounts, err := serializeAmounts(e.SuggestedAmounts)
			if err != nil {
				return nil, err
			}
			return []interface{}{
				e.Title, e.Description, e.ImageURL, e.Location, e.StartDate, nullableTimeValue(e.EndDate),
				amounts, e.DonationEnabled, e.IsActive, e.DisplayOrder, e.CreatedAt, e.UpdatedAt,
			}, nil
		},
		scan: func(scan rowScanner, e *entity.Event) error {
			var endDate sql.NullTime
			var amounts string
			err := scan.Scan(
				&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.Location, &e.StartDate, &endDate,
				&amounts, &e.DonationEnabled, &e.IsActive, &e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt,
			)
			if err != nil {
				return err
			}
			e.EndDate = timePtrFromNull(endDate)
			parsed, err := parseAmounts(amounts)
			if err != nil {
				return err
			}
			e.SuggestedAmounts = parsed
			return nil
		},
	})
}

func NewDonationCardRepository(db DBTX) *CRUDRepository[entity.DonationCard] {
	return newCRUDRepository(db, table[entity.DonationCard]{
		name:         "donation_cards",
		columns:      []string{"category_id", "label", "amount", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, amount ASC",
		activeColumn: "is_active",
		parentColumn: "category_id",
		beforeDelete: []string{
			"UPDATE donations SET card_id = NULL WHERE card_id = ? AND event_id IS NULL",
		},
		id:    func(c *entity.DonationCard) uint64 { return c.ID },
		setID: func(c *entity.DonationCard, id uint64) { c.ID = id },
		values: func(c *entity.DonationCard) ([]interface{}, error) {
			return []interface{}{c.CategoryID, c.Label, c.Amount, c.IsActive, c.DisplayOrder, c.CreatedAt, c.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, c *entity.DonationCard) error {
			return scan.Scan(&c.ID, &c.CategoryID, &c.Label, &c.Amount, &c.IsActive, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
		},
	})
}

func NewEventDonationCardRepository(db DBTX) *CRUDRepository[entity.EventDonationCard] {
	return newCRUDRepository(db, table[entity.EventDonationCard]{
		name:         "event_donation_cards",
		columns:      []string{"event_id", "label", "amount", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, amount ASC",
		activeColumn: "is_active",
		parentColumn: "event_id",
		beforeDelete: []string{
			"UPDATE donations SET card_id = NULL WHERE card_id = ? AND event_id IS NOT NULL",
		},
		id:    func(c *entity.EventDonationCard) uint64 { return c.ID },
		setID: func(c *entity.EventDonationCard, id uint64) { c.ID = id },
		values: func(c *entity.EventDonationCard) ([]interface{}, error) {
			return []interface{}{c.EventID, c.Label, c.Amount, c.IsActive, c.DisplayOrder, c.CreatedAt, c.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, c *entity.EventDonationCard) error {
			return scan.Scan(&c.ID, &c.EventID, &c.Label, &c.Amount, &c.IsActive, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
		},
	})
}

var bankAccountColumns = []string{"account_name", "account_number", "bank_name", "ifsc", "branch", "upi_id", "qr_code_url"}

func bankAccountValues(a *entity.BankAccount) []interface{} {
	return []interface{}{a.AccountName, a.AccountNumber, a.BankName, a.IFSC, a.Branch, a.UPIID, a.QRCodeURL}
}

func bankAccountDest(a *entity.BankAccount) []interface{} {
	return []interface{}{&a.AccountName, &a.AccountNumber, &a.BankName, &a.IFSC, &a.Branch, &a.UPIID, &a.QRCodeURL}
}

func bankColumns(parent string) []string {
	columns := make([]string, 0, len(bankAccountColumns)+4)
	if parent != "" {
		columns = append(columns, parent)
	}
	columns = append(columns, bankAccountColumns...)
	return append(columns, "is_active", "created_at", "updated_at")
}

func NewBankDetailsRepository(db DBTX) *CRUDRepository[entity.BankDetails] {
	return newCRUDRepository(db, table[entity.BankDetails]{
		name:         "bank_details",
		columns:      bankColumns(""),
		orderBy:      "id ASC",
		activeColumn: "is_active",
		id:           func(b *entity.BankDetails) uint64 { return b.ID },
		setID:        func(b *entity.BankDetails, id uint64) { b.ID = id },
		values: func(b *entity.BankDetails) ([]interface{}, error) {
			args := bankAccountValues(&b.BankAccount)
			return append(args, b.IsActive, b.CreatedAt, b.UpdatedAt), nil
		},
		scan: func(scan rowScanner, b *entity.BankDetails) error {
			dest := []interface{}{&b.ID}
			dest = append(dest, bankAccountDest(&b.BankAccount)...)
			dest = append(dest, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
			return scan.Scan(dest...)
		},
	})
}

func NewCategoryBankDetailsRepository(db DBTX) *CRUDRepository[entity.CategoryBankDetails] {
	return newCRUDRepository(db, table[entity.CategoryBankDetails]{
		name:         "category_bank_details",
		columns:      bankColumns("category_id"),
		orderBy:      "id ASC",
		activeColumn: "is_active",
		parentColumn: "category_id",
		id:           func(b *entity.CategoryBankDetails) uint64 { return b.ID },
		setID:        func(b *entity.CategoryBankDetails, id uint64) { b.ID = id },
		values: func(b *entity.CategoryBankDetails) ([]interface{}, error) {
			args := []interface{}{b.CategoryID}
			args = append(args, bankAccountValues(&b.BankAccount)...)
			return append(args, b.IsActive, b.CreatedAt, b.UpdatedAt), nil
		},
		scan: func(scan rowScanner, b *entity.CategoryBankDetails) error {
			dest := []interface{}{&b.ID, &b.CategoryID}
			dest = append(dest, bankAccountDest(&b.BankAccount)...)
			dest = append(dest, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
			return scan.Scan(dest...)
		},
	})
}

func NewEventBankDetailsRepository(db DBTX) *CRUDRepository[entity.EventBankDetails] {
	return newCRUDRepository(db, table[entity.EventBankDetails]{
		name:         "event_bank_details",
		columns:      bankColumns("event_id"),
		orderBy:      "id ASC",
		activeColumn: "is_active",
		parentColumn: "event_id",
		id:           func(b *entity.EventBankDetails) uint64 { return b.ID },
		setID:        func(b *entity.EventBankDetails, id uint64) { b.ID = id },
		values: func(b *entity.EventBankDetails) ([]interface{}, error) {
			args := []interface{}{b.EventID}
			args = append(args, bankAccountValues(&b.BankAccount)...)
			return append(args, b.IsActive, b.CreatedAt, b.UpdatedAt), nil
		},
		scan: func(scan rowScanner, b *entity.EventBankDetails) error {
			dest := []interface{}{&b.ID, &b.EventID}
			dest = append(dest, bankAccountDest(&b.BankAccount)...)
			dest = append(dest, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
			return scan.Scan(dest...)
		},
	})
}
