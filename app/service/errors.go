package service

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrReferenceNotFound   = errors.New("referenced record not found")
	ErrDonationNotFound    = errors.New("donation not found")
	ErrCallbackRejected    = errors.New("callback rejected")
	ErrStatusConflict      = errors.New("donation already has a different final status")
	ErrReceiptUnavailable  = errors.New("receipt is only available for completed donations")
	ErrCheckoutUnavailable = errors.New("checkout is no longer available")
	ErrProviderUnsupported = errors.New("provider is not supported")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
)
