package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrInvalidOfferID = errors.New("invalid offer id")
	ErrNoLinkForOffer = errors.New("offer has no link")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationErrors is returned for any input that fails validation. Callers
// detect it with errors.As.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
