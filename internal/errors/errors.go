package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

// NewFieldError builds a ValidationError for a single offending field.
func NewFieldError(field, message string) *ValidationError {
	return NewValidationError(fmt.Sprintf("%s: %s", field, message), ValidationDetail{
		Field:   field,
		Message: message,
	})
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// StoreCorruptError reports a local store value that could not be decoded.
// It is recovered from locally and only ever logged.
type StoreCorruptError struct {
	Key   string
	Cause error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("store key %q is corrupt: %v", e.Key, e.Cause)
}

func (e *StoreCorruptError) Unwrap() error {
	return e.Cause
}

func NewStoreCorruptError(key string, cause error) *StoreCorruptError {
	return &StoreCorruptError{Key: key, Cause: cause}
}

func IsStoreCorruptError(err error) (*StoreCorruptError, bool) {
	var sc *StoreCorruptError
	if stderrors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}

// RemoteUnavailableError covers network failures, timeouts and non-2xx
// answers from the remote order store.
type RemoteUnavailableError struct {
	Op         string
	StatusCode int
	Cause      error
}

func (e *RemoteUnavailableError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("remote %s unavailable: %v", e.Op, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("remote %s unavailable: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("remote %s unavailable", e.Op)
	}
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Cause
}

func NewRemoteUnavailableError(op string, statusCode int, cause error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Op: op, StatusCode: statusCode, Cause: cause}
}

func IsRemoteUnavailableError(err error) (*RemoteUnavailableError, bool) {
	var ru *RemoteUnavailableError
	if stderrors.As(err, &ru) {
		return ru, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
