package account

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidDirection = errors.New("invalid_direction")
)
