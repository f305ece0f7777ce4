package wid

import (
	"errors"
	"fmt"
)

// ConfigError reports generator or parser parameters that can never produce
// a valid identifier. It is returned at construction time; parameters are
// never silently defaulted.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Field names the offending parameter (W, Z, node, ...).
	Field string

	// Message is a human-readable description.
	Message string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	ErrCodeInvalidW           ConfigErrorCode = "INVALID_W"
	ErrCodeInvalidZ           ConfigErrorCode = "INVALID_Z"
	ErrCodeInvalidNode        ConfigErrorCode = "INVALID_NODE"
	ErrCodeInvalidScope       ConfigErrorCode = "INVALID_SCOPE"
	ErrCodeInvalidTimeUnit    ConfigErrorCode = "INVALID_TIME_UNIT"
	ErrCodeInvalidKind        ConfigErrorCode = "INVALID_KIND"
	ErrCodeInvalidState       ConfigErrorCode = "INVALID_STATE"
	ErrCodeInvalidRemoteClock ConfigErrorCode = "INVALID_REMOTE_CLOCK"
	ErrCodeInvalidRetryBudget ConfigErrorCode = "INVALID_RETRY_BUDGET"
	ErrCodeInvalidConfig      ConfigErrorCode = "INVALID_CONFIG"
)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newConfigError(code ConfigErrorCode, field, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError returns true if err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// RejectReason names the part of a candidate identifier that failed.
type RejectReason string

const (
	RejectFormat    RejectReason = "format"
	RejectTimestamp RejectReason = "timestamp"
	RejectScope     RejectReason = "scope"
	RejectPadding   RejectReason = "padding"
	RejectNode      RejectReason = "node"
)

// RejectError is the negative result of Parse. It describes data, not a
// fault: callers that only need a yes/no answer should use Validate.
type RejectError struct {
	Reason RejectReason
	Input  string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("rejected %q: invalid %s", e.Input, e.Reason)
}

// IsRejected returns true if err is or wraps a *RejectError.
func IsRejected(err error) bool {
	var re *RejectError
	return errors.As(err, &re)
}
