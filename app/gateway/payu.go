package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

const (
	ProviderPayU = "payu"

	// item status the verify API reports for a txnid it never saw
	payuStatusNotFound = "Not Found"
)

type PayUConfig struct {
	MerchantKey string
	Salt        string
	PaymentURL  string
	VerifyURL   string
	HTTPTimeout time.Duration
}

type PayUProvider struct {
	cfg    PayUConfig
	client *http.Client
}

func NewPayUProvider(cfg PayUConfig) *PayUProvider {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &PayUProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *PayUProvider) Code() string {
	return ProviderPayU
}

func (p *PayUProvider) BuildCheckout(_ context.Context, input *CheckoutInput) (*Checkout, error) {
	if strings.TrimSpace(p.cfg.MerchantKey) == "" || strings.TrimSpace(p.cfg.Salt) == "" {
		return nil, errors.New("payu merchant key or salt is not configured")
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, errors.New("transaction id is required")
	}
	if input.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	params := map[string]string{
		"key":         p.cfg.MerchantKey,
		"txnid":       input.TransactionID,
		"amount":      FormatAmount(input.Amount),
		"productinfo": input.ProductInfo,
		"firstname":   input.FirstName,
		"email":       input.Email,
		"phone":       input.Phone,
		"surl":        input.SuccessURL,
		"furl":        input.FailureURL,
	}
	for i, value := range input.UDF {
		params[fmt.Sprintf("udf%d", i+1)] = value
	}
	params["hash"] = p.requestHash(params)

	return &Checkout{
		Action: p.cfg.PaymentURL,
		Params: params,
	}, nil
}

func (p *PayUProvider) VerifyAndParseCallback(_ context.Context, fields map[string]string) (*CallbackResult, error) {
	if strings.TrimSpace(p.cfg.Salt) == "" {
		return nil, errors.New("payu salt is not configured")
	}

	txnID := strings.TrimSpace(fields["txnid"])
	if txnID == "" {
		return nil, fmt.Errorf("%w: txnid missing", ErrMalformedCallback)
	}
	if strings.TrimSpace(fields["key"]) != p.cfg.MerchantKey {
		return nil, ErrInvalidSignature
	}
	if !verifyHash(p.responseHash(fields), fields["hash"]) {
		return nil, ErrInvalidSignature
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields["amount"]))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount", ErrMalformedCallback)
	}

	reported := strings.TrimSpace(fields["status"])
	return &CallbackResult{
		TransactionID:    txnID,
		GatewayPaymentID: strings.TrimSpace(fields["mihpayid"]),
		ReportedStatus:   reported,
		Status:           mapPayUStatus(reported),
		Amount:           amount,
	}, nil
}

func (p *PayUProvider) GetTransactionStatus(ctx context.Context, transactionID string) (*CallbackResult, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, nil
	}
	if strings.TrimSpace(p.cfg.VerifyURL) == "" {
		return nil, errors.New("payu verify url is not configured")
	}

	const command = "verify_payment"
	values := url.Values{}
	values.Set("key", p.cfg.MerchantKey)
	values.Set("command", command)
	values.Set("var1", transactionID)
	values.Set("hash", sha512Hex(strings.Join([]string{p.cfg.MerchantKey, command, transactionID, p.cfg.Salt}, "|")))

	body, err := p.postForm(ctx, values)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Status             int    `json:"status"`
		Message            string `json:"msg"`
		TransactionDetails map[string]struct {
			MihPayID string `json:"mihpayid"`
			Status   string `json:"status"`
			Amount   string `json:"amt"`
		} `json:"transaction_details"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusQuery, err)
	}

	details, ok := payload.TransactionDetails[transactionID]
	if ok && strings.EqualFold(strings.TrimSpace(details.Status), payuStatusNotFound) {
		return nil, nil
	}
	if payload.Status != 1 {
		return nil, fmt.Errorf("%w: %s", ErrStatusQuery, strings.TrimSpace(payload.Message))
	}
	if !ok {
		return nil, fmt.Errorf("%w: no details for %s", ErrStatusQuery, transactionID)
	}

	result := &CallbackResult{
		TransactionID:    transactionID,
		GatewayPaymentID: strings.TrimSpace(details.MihPayID),
		ReportedStatus:   details.Status,
		Status:           mapPayUStatus(details.Status),
	}
	if amount, err := decimal.NewFromString(strings.TrimSpace(details.Amount)); err == nil {
		result.Amount = amount
	}
	return result, nil
}

func (p *PayUProvider) postForm(ctx context.Context, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.VerifyURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payu verify request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	return body, nil
}

// requestHash signs key|txnid|amount|productinfo|firstname|email|udf1..udf10|salt.
func (p *PayUProvider) requestHash(params map[string]string) string {
	parts := []string{
		params["key"], params["txnid"], params["amount"], params["productinfo"], params["firstname"], params["email"],
	}
	for i := 1; i <= 10; i++ {
		parts = append(parts, params[fmt.Sprintf("udf%d", i)])
	}
	parts = append(parts, p.cfg.Salt)
	return sha512Hex(strings.Join(parts, "|"))
}

// responseHash rebuilds salt|status|udf10..udf1|email|firstname|productinfo|amount|txnid|key,
// prefixed with additional_charges when the gateway sent them.
func (p *PayUProvider) responseHash(fields map[string]string) string {
	parts := make([]string, 0, 19)
	if charges := strings.TrimSpace(fields["additionalCharges"]); charges != "" {
		parts = append(parts, charges)
	} else if charges := strings.TrimSpace(fields["additional_charges"]); charges != "" {
		parts = append(parts, charges)
	}
	parts = append(parts, p.cfg.Salt, fields["status"])
	for i := 10; i >= 1; i-- {
		parts = append(parts, fields[fmt.Sprintf("udf%d", i)])
	}
	parts = append(parts,
		fields["email"], fields["firstname"], fields["productinfo"], fields["amount"], fields["txnid"], fields["key"],
	)
	return sha512Hex(strings.Join(parts, "|"))
}

func mapPayUStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "captured":
		return entity.DonationStatusCompleted
	case "failure", "failed", "usercancelled", "cancelled", "bounced", "dropped":
		return entity.DonationStatusFailed
	default:
		return entity.DonationStatusPending
	}
}

func sha512Hex(value string) string {
	sum := sha512.Sum512([]byte(value))
	return hex.EncodeToString(sum[:])
}

func verifyHash(expected, provided string) bool {
	provided = strings.ToLower(strings.TrimSpace(provided))
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
