package service

import (
	"errors"
	"fmt"
	"strings"

	"reviewhub/internal/api/access"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrReviewExists    = errors.New("you have already reviewed this title")
)

// FieldErrors carries validation failures keyed by request field so the
// boundary can return them verbatim in a 400 body.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return strings.Join(parts, ", ")
}

func fieldError(field, msg string) FieldErrors {
	return FieldErrors{field: {msg}}
}

// decisionErr maps a denied access decision onto the error taxonomy.
// Allow maps to nil.
func decisionErr(d access.Decision) error {
	switch d {
	case access.DenyUnauthenticated:
		return ErrUnauthenticated
	case access.DenyForbidden:
		return ErrForbidden
	}
	return nil
}

// orNotFound collapses a storage miss into ErrNotFound and leaves every
// other error untouched.
func orNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
