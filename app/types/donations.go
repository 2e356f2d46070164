package types

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type CreateDonationRequest struct {
	Amount     int64   `json:"amount" validate:"gt=0"`
	Name       string  `json:"name" validate:"required,min=2,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Phone      string  `json:"phone" validate:"required,phone,max=20"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	PanCard    *string `json:"pan_card,omitempty" validate:"omitempty,pan"`
	Message    *string `json:"message,omitempty" validate:"omitempty,max=1000"`
	CategoryID *uint64 `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	EventID    *uint64 `json:"event_id,omitempty" validate:"omitempty,gt=0"`
	CardID     *uint64 `json:"card_id,omitempty" validate:"omitempty,gt=0"`
}

func NewCreateDonationRequestFromContext(ctx echo.Context) (*CreateDonationRequest, error) {
	var body CreateDonationRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	body.Phone = strings.TrimSpace(body.Phone)
	body.Address = trimmedOrNil(body.Address)
	body.Message = trimmedOrNil(body.Message)
	body.PanCard = trimmedOrNil(body.PanCard)
	if body.PanCard != nil {
		upper := strings.ToUpper(*body.PanCard)
		body.PanCard = &upper
	}

	return &body, nil
}

func (r *CreateDonationRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.CategoryID != nil && r.EventID != nil {
		return errors.New("only one of category_id or event_id may be set")
	}
	if r.CategoryID == nil && r.EventID == nil && r.CardID == nil {
		return errors.New("one of category_id, event_id or card_id is required")
	}
	return nil
}

type TransactionRequest struct {
	TransactionID string
}

func NewTransactionRequestFromContext(ctx echo.Context) (*TransactionRequest, error) {
	return &TransactionRequest{TransactionID: strings.TrimSpace(ctx.Param("txnid"))}, nil
}

func (r *TransactionRequest) Validate() error {
	if r.TransactionID == "" {
		return errors.New("transaction id is required")
	}
	if len(r.TransactionID) > 64 {
		return errors.New("transaction id is too long")
	}
	return nil
}

const (
	ReceiptFormatPNG  = "png"
	ReceiptFormatHTML = "html"
)

type ReceiptRequest struct {
	TransactionID string
	Format        string
}

func NewReceiptRequestFromContext(ctx echo.Context) (*ReceiptRequest, error) {
	format := strings.ToLower(strings.TrimSpace(ctx.QueryParam("format")))
	if format == "" {
		format = ReceiptFormatPNG
	}
	return &ReceiptRequest{
		TransactionID: strings.TrimSpace(ctx.Param("txnid")),
		Format:        format,
	}, nil
}

func (r *ReceiptRequest) Validate() error {
	if r.TransactionID == "" {
		return errors.New("transaction id is required")
	}
	if r.Format != ReceiptFormatPNG && r.Format != ReceiptFormatHTML {
		return errors.New("format must be png or html")
	}
	return nil
}

type ListDonationsRequest struct {
	Status     string
	CategoryID uint64
	EventID    uint64
	Email      string
	Limit      int32
	Offset     int32
}

func NewListDonationsRequestFromContext(ctx echo.Context) (*ListDonationsRequest, error) {
	req := &ListDonationsRequest{
		Status: strings.ToLower(strings.TrimSpace(ctx.QueryParam("status"))),
		Email:  strings.ToLower(strings.TrimSpace(ctx.QueryParam("email"))),
		Limit:  100,
	}

	if raw := strings.TrimSpace(ctx.QueryParam("category_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.CategoryID = id
	}
	if raw := strings.TrimSpace(ctx.QueryParam("event_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.EventID = id
	}

	limit, offset, err := parsePagination(ctx)
	if err != nil {
		return nil, err
	}
	if limit != 0 {
		req.Limit = limit
	}
	req.Offset = offset

	return req, nil
}

func (r *ListDonationsRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = 100
	}
	if err := validatePagination(r.Limit, r.Offset, true); err != nil {
		return err
	}
	if r.Status != "" && !isValidDonationStatus(r.Status) {
		return errors.New("invalid status")
	}
	return nil
}

func isValidDonationStatus(status string) bool {
	switch status {
	case entity.DonationStatusPending, entity.DonationStatusCompleted, entity.DonationStatusFailed:
		return true
	default:
		return false
	}
}

type DonationResponse struct {
	ID               uint64          `json:"id"`
	UserID           *uint64         `json:"user_id,omitempty"`
	CategoryID       *uint64         `json:"category_id,omitempty"`
	EventID          *uint64         `json:"event_id,omitempty"`
	CardID           *uint64         `json:"card_id,omitempty"`
	Amount           int64           `json:"amount"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          *string         `json:"address,omitempty"`
	PanCard          *string         `json:"pan_card,omitempty"`
	Message          *string         `json:"message,omitempty"`
	PaymentID        string          `json:"payment_id"`
	GatewayPaymentID *string         `json:"gateway_payment_id,omitempty"`
	Status           string          `json:"status"`
	InvoiceNumber    *string         `json:"invoice_number,omitempty"`
	ReceiptSent      bool            `json:"receipt_sent"`
	NotificationSent bool            `json:"notification_sent"`
	GatewayResponse  json.RawMessage `json:"payment_gateway_response,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// GatewayForm is the form the browser posts to the hosted payment page.
type GatewayForm struct {
	Action string            `json:"action"`
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

type InitiateDonationResponse struct {
	Donation *DonationResponse `json:"donation"`
	Gateway  *GatewayForm      `json:"gateway"`
}

type CheckoutResponse struct {
	TransactionID string       `json:"txnid"`
	Provider      string       `json:"provider"`
	Gateway       *GatewayForm `json:"gateway"`
}

type DonationCardResponse struct {
	ID         uint64  `json:"id"`
	CategoryID *uint64 `json:"category_id,omitempty"`
	EventID    *uint64 `json:"event_id,omitempty"`
	Label      string  `json:"label"`
	Amount     int64   `json:"amount"`
}

type DonationDetailsResponse struct {
	Donation *DonationResponse        `json:"donation"`
	User     *entity.User             `json:"user,omitempty"`
	Type     string                   `json:"type"`
	Category *entity.DonationCategory `json:"category,omitempty"`
	Event    *entity.Event            `json:"event,omitempty"`
	Card     *DonationCardResponse    `json:"card,omitempty"`
}

type ReconcileResponse struct {
	TransactionID string `json:"txnid"`
	Status        string `json:"status"`
	Changed       bool   `json:"changed"`
}
