package models

import (
	"fmt"
	"strings"
)

// InputValidationError reports a missing or malformed user-supplied field.
type InputValidationError struct {
	Field    string
	Problems []string
}

func (e *InputValidationError) Error() string {
	if e.Field == "password" {
		return "password must contain " + strings.Join(e.Problems, ", ")
	}
	if len(e.Problems) == 0 {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, strings.Join(e.Problems, ", "))
}

// AuthError reports a rejected credential or an operation attempted
// without a signed-in identity.
type AuthError struct {
	Op     string
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	msg := "auth: " + e.Op + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// StoreError reports a profile store read or write failure.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
