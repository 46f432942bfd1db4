package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable error code
type ErrorCode string

const (
	// Validation errors (VALIDATION_*)
	ErrorCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationMissingToken ErrorCode = "VALIDATION_MISSING_TOKEN"

	// Order errors (ORDER_*)
	ErrorCodeOrderNotFound    ErrorCode = "ORDER_NOT_FOUND"
	ErrorCodeOrderKeyMismatch ErrorCode = "ORDER_KEY_MISMATCH"

	// Payment gateway errors (GATEWAY_*)
	ErrorCodeGatewayError    ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayDeclined ErrorCode = "GATEWAY_DECLINED"
	ErrorCodeGatewayTimeout  ErrorCode = "GATEWAY_TIMEOUT"

	// Business state errors
	ErrorCodeStatusUnknown        ErrorCode = "PAYMENT_STATUS_UNKNOWN"
	ErrorCodeRefundMissingPayment ErrorCode = "REFUND_MISSING_PAYMENT_ID"
	ErrorCodeRefundFailed         ErrorCode = "REFUND_FAILED"

	// Webhook errors (WEBHOOK_*)
	ErrorCodeWebhookBadSignature ErrorCode = "WEBHOOK_INVALID_SIGNATURE"

	// Store (WooCommerce) errors (STORE_*)
	ErrorCodeStoreError        ErrorCode = "STORE_ERROR"
	ErrorCodeStoreUnauthorized ErrorCode = "STORE_UNAUTHORIZED"
)

// DomainError is a structured error with a code and optional cause.
// Boundary handlers map codes to buyer-generic notices; the wrapped cause
// stays in the logs.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a DomainError without a cause.
func NewError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WrapError creates a DomainError wrapping a cause.
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the error code from err, or "" when err carries no
// DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
