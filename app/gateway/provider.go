package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature  = errors.New("invalid gateway signature")
	ErrMalformedCallback = errors.New("malformed gateway callback")
	ErrStatusQuery       = errors.New("gateway status query failed")
)

type CheckoutInput struct {
	TransactionID string
	Amount        int64
	ProductInfo   string
	FirstName     string
	Email         string
	Phone         string
	SuccessURL    string
	FailureURL    string

	// UDF carries udf1..udf5, they are echoed back and covered by both hashes.
	UDF [5]string
}

type Checkout struct {
	Action string
	Params map[string]string
}

type CallbackResult struct {
	TransactionID    string
	GatewayPaymentID string
	ReportedStatus   string
	Status           string
	Amount           decimal.Decimal
}

type Provider interface {
	Code() string
	BuildCheckout(ctx context.Context, input *CheckoutInput) (*Checkout, error)
	VerifyAndParseCallback(ctx context.Context, fields map[string]string) (*CallbackResult, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (*CallbackResult, error)
}

// FormatAmount renders whole rupees the way the gateway expects them in hashes.
func FormatAmount(amount int64) string {
	return decimal.NewFromInt(amount).String()
}
