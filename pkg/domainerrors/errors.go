// Package domainerrors defines coded errors shared across the verification
// pipeline. Stages return these instead of raw errors so the orchestrator can
// match on the code rather than on error text or concrete types.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Pipeline reason codes reuse these
// values directly, so a stage error converts to a terminal outcome without
// translation.
type Code string

// Stage 1: client assertion verification.
const (
	CodeMalformedToken     Code = "malformed_token"
	CodeInvalidSignature   Code = "invalid_signature"
	CodeMissingExpiryClaim Code = "missing_expiry_claim"
	CodeAssertionExpired   Code = "assertion_expired"
)

// Stage 2: client registry lookup.
const (
	CodeRegistryError  Code = "registry_error"
	CodeClientNotFound Code = "client_not_found"
)

// Stage 3: consent lookup and expiry check.
const (
	CodeConsentLookupError Code = "consent_lookup_error"
	CodeConsentIDNotFound  Code = "consent_id_not_found"
	CodeConsentExpired     Code = "consent_expired"
)

// Stage 4: consent activation.
const (
	CodeInvalidConsentID   Code = "invalid_consent_id"
	CodeConsentNotFound    Code = "consent_not_found"
	CodeConsentUpdateError Code = "consent_update_error"
)

// Stage 5: token exchange.
const (
	CodeTokenExchangeError    Code = "token_exchange_error"
	CodeTokenGenerationFailed Code = "token_generation_failed"
)

// Cross-cutting.
const (
	CodeTimeout        Code = "timeout"
	CodeTransportError Code = "transport_error"
	CodeBadRequest     Code = "bad_request"
	CodeInternal       Code = "internal"
)

// Error is a coded domain error. Message is operator-facing; callers only
// ever see the code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
