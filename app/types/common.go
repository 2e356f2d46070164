package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ListResponse[T any] struct {
	Items  []*T  `json:"items"`
	Limit  int32 `json:"limit,omitempty"`
	Offset int32 `json:"offset,omitempty"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type IDRequest struct {
	ID uint64
}

func NewIDRequestFromContext(ctx echo.Context) (*IDRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &IDRequest{ID: id}, nil
}

func (r *IDRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid id")
	}
	return nil
}

// ListRequest is the query shape shared by every admin list endpoint.
type ListRequest struct {
	ParentID   uint64
	ActiveOnly bool
	Limit      int32
	Offset     int32
}

func NewListRequestFromContext(ctx echo.Context) (*ListRequest, error) {
	req := &ListRequest{}

	for _, key := range []string{"category_id", "event_id", "parent_id"} {
		raw := strings.TrimSpace(ctx.QueryParam(key))
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ParentID = id
	}

	if raw := strings.TrimSpace(ctx.QueryParam("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.ActiveOnly = active
	}

	limit, offset, err := parsePagination(ctx)
	if err != nil {
		return nil, err
	}
	req.Limit = limit
	req.Offset = offset

	return req, nil
}

func (r *ListRequest) Validate() error {
	return validatePagination(r.Limit, r.Offset, false)
}

func parsePagination(ctx echo.Context) (int32, int32, error) {
	var limit, offset int32
	if raw := strings.TrimSpace(ctx.QueryParam("limit")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return 0, 0, err
		}
		limit = int32(value)
	}
	if raw := strings.TrimSpace(ctx.QueryParam("offset")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return 0, 0, err
		}
		offset = int32(value)
	}
	return limit, offset, nil
}

func validatePagination(limit, offset int32, limitRequired bool) error {
	if limit < 0 || limit > 500 || (limitRequired && limit == 0) {
		return errors.New("limit must be between 1 and 500")
	}
	if offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}
