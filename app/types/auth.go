package types

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	var body LoginRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	return &body, nil
}

func (r *LoginRequest) Validate() error {
	return validateStruct(r)
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

type ContactRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone,max=20"`
	Subject string  `json:"subject" validate:"required,max=255"`
	Message string  `json:"message" validate:"required,max=5000"`
}

func NewContactRequestFromContext(ctx echo.Context) (*ContactRequest, error) {
	var body ContactRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	body.Phone = trimmedOrNil(body.Phone)
	body.Subject = strings.TrimSpace(body.Subject)
	body.Message = strings.TrimSpace(body.Message)
	return &body, nil
}

func (r *ContactRequest) Validate() error {
	return validateStruct(r)
}
