package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ProviderCallbackRequest carries the fields a gateway posted back, either as a
// browser form post or as a server-to-server notification.
type ProviderCallbackRequest struct {
	RequestID string
	Provider  string
	Outcome   string
	Fields    map[string]string
	Payload   string
}

func NewProviderCallbackRequestFromContext(ctx echo.Context) (*ProviderCallbackRequest, error) {
	req := &ProviderCallbackRequest{
		RequestID: strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID)),
		Provider:  strings.ToLower(strings.TrimSpace(ctx.Param("provider"))),
		Outcome:   strings.ToLower(strings.TrimSpace(ctx.Param("outcome"))),
		Fields:    map[string]string{},
	}
	if req.RequestID == "" {
		req.RequestID = strings.TrimSpace(ctx.Response().Header().Get(echo.HeaderXRequestID))
	}

	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		rawBody, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			return nil, err
		}
		var body map[string]interface{}
		if len(rawBody) > 0 {
			decoder := json.NewDecoder(bytes.NewReader(rawBody))
			decoder.UseNumber()
			if err := decoder.Decode(&body); err != nil {
				return nil, err
			}
		}
		for key, value := range body {
			req.Fields[key] = stringifyField(value)
		}
	} else {
		form, err := ctx.FormParams()
		if err != nil {
			return nil, err
		}
		for key, values := range form {
			if len(values) > 0 {
				req.Fields[key] = values[0]
			}
		}
	}

	// Browser returns may also carry the transaction id in the query string.
	for _, key := range []string{"txnid", "status"} {
		if req.Fields[key] == "" {
			if value := strings.TrimSpace(ctx.QueryParam(key)); value != "" {
				req.Fields[key] = value
			}
		}
	}

	payload, err := json.Marshal(req.Fields)
	if err != nil {
		return nil, err
	}
	req.Payload = string(payload)

	return req, nil
}

func (r *ProviderCallbackRequest) TransactionID() string {
	return strings.TrimSpace(r.Fields["txnid"])
}

func (r *ProviderCallbackRequest) Validate() error {
	if r.Provider == "" {
		return errors.New("provider is required")
	}
	if r.Outcome != "" && r.Outcome != OutcomeSuccess && r.Outcome != OutcomeFailure {
		return errors.New("outcome must be success or failure")
	}
	if r.TransactionID() == "" {
		return errors.New("txnid is required")
	}
	if strings.TrimSpace(r.Fields["hash"]) == "" {
		return errors.New("gateway signature is required")
	}
	return nil
}

func stringifyField(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}
