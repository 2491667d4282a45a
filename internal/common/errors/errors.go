// Package errors provides standardized error handling for the notification pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCatalogLoadFailed   ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogLookupFailed ErrorCode = "CATALOG_LOOKUP_FAILED"

	ErrCodeTemplateMissing ErrorCode = "TEMPLATE_MISSING"

	ErrCodeRecipientUnresolved ErrorCode = "RECIPIENT_UNRESOLVED"

	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"
	ErrCodeDuplicateEvent ErrorCode = "DUPLICATE_EVENT"

	ErrCodeDispatchTimeout        ErrorCode = "DISPATCH_TIMEOUT"
	ErrCodeDispatchTransportError ErrorCode = "DISPATCH_TRANSPORT_ERROR"

	ErrCodeInvalidEvent ErrorCode = "INVALID_EVENT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target carries the same error code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// NewCatalogLoadFailedError creates a retryable store error. The current
// request aborts, but a fresh request may succeed.
func NewCatalogLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Status catalog load failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLookupFailedError creates a non-retryable lookup error for an
// unknown status code. Callers log and skip dispatch.
func NewCatalogLookupFailedError(statusCode int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLookupFailed,
		Message:   "Unknown status code",
		Details:   fmt.Sprintf("statusCode: %d", statusCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateMissingError creates a non-retryable error for a status entry
// with no template for the requested role/channel.
func NewTemplateMissingError(statusCode int, role, channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateMissing,
		Message:   "No template configured for status",
		Details:   fmt.Sprintf("statusCode: %d, role: %s, channel: %s", statusCode, role, channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecipientUnresolvedError creates a non-retryable error for a notify-role
// with no resolvable address. The recipient is dropped, others proceed.
func NewRecipientUnresolvedError(role string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecipientUnresolved,
		Message:   "No resolvable address for notification recipient",
		Details:   fmt.Sprintf("role: %s", role),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a non-retryable error for a project that
// exhausted its dispatch window.
func NewRateLimitedError(projectID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Dispatch rate limit exceeded for project",
		Details:   fmt.Sprintf("projectId: %d", projectID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateEventError creates a non-retryable error for an event whose
// fingerprint was already seen inside the dedup window.
func NewDuplicateEventError(fingerprint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateEvent,
		Message:   "Duplicate notification event suppressed",
		Details:   fmt.Sprintf("fingerprint: %s", fingerprint),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchTimeoutError creates a non-retryable timeout error. Timed-out
// dispatches are dropped, never re-sent.
func NewDispatchTimeoutError(channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchTimeout,
		Message:   "Outbound dispatch timed out",
		Details:   fmt.Sprintf("channel: %s", channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchTransportError creates a non-retryable transport error.
// Dropping a notification is preferred over duplicate sending.
func NewDispatchTransportError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchTransportError,
		Message:   "Outbound dispatch failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidEventError creates a non-retryable error for a malformed
// status-change event.
func NewInvalidEventError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEvent,
		Message:   "Invalid status change event",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
