// Package apperrors defines the error taxonomy shared by the controller
// core functions. Handlers translate these once into HTTP status codes.
package apperrors

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("you do not own this resource")
	ErrInvalid   = errors.New("invalid request")
)
