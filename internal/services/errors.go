package services

import "errors"

// Failure kinds shared by all domain services. Handlers match these with
// errors.Is and translate them into flash messages or JSON error codes;
// the raw errors never reach a response body.
var (
	ErrNotFound            = errors.New("not_found")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrAccountDisabled     = errors.New("account_disabled")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrDuplicateIdentifier = errors.New("duplicate_identifier")
	ErrValidation          = errors.New("validation_failed")
)
