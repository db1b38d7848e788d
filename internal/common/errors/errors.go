// internal/common/errors/errors.go

// Package errors provides standardized error handling for the opportunity
// engine's external collaborators. The detection and scoring core itself
// never raises on malformed signal data; the codes here cover the storage,
// indexing and notification surfaces around it.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSignalLoadFailed        ErrorCode = "SIGNAL_LOAD_FAILED"
	ErrCodeInvalidSignalPayload    ErrorCode = "INVALID_SIGNAL_PAYLOAD"
	ErrCodeOpportunityPersistError ErrorCode = "OPPORTUNITY_PERSIST_FAILED"
	ErrCodeIndexWriteFailed        ErrorCode = "INDEX_WRITE_FAILED"
	ErrCodeNotificationSendFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// NewSignalLoadFailedError creates a retryable signal store error.
func NewSignalLoadFailedError(companyID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSignalLoadFailed,
		Message:   "Failed to load signals for company",
		Details:   fmt.Sprintf("companyId: %s, error: %s", companyID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSignalPayloadError creates a non-retryable boundary validation error.
func NewInvalidSignalPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSignalPayload,
		Message:   "Signal payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOpportunityPersistError creates a retryable persistence error.
func NewOpportunityPersistError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOpportunityPersistError,
		Message:   "Failed to persist generated opportunities",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexWriteFailedError creates a retryable search index error.
func NewIndexWriteFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexWriteFailed,
		Message:   "Failed to index scored opportunities",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Opportunity alert delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}
