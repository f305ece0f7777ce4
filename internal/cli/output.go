package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/wid/internal/store"
	"github.com/roach88/wid/internal/wid"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure (invalid id, failing vectors, unhealthy sample)
	ExitCommandError = 2 // Command error (bad configuration, storage failure, contention)
)

// Error codes reported in CLI error output.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeConfig     = "E002" // Invalid configuration
	ErrCodeInvalidID  = "E003" // Identifier rejected
	ErrCodeStorage    = "E004" // Counter store failure
	ErrCodeContention = "E005" // Retry budget exhausted
	ErrCodeNotFound   = "E006" // File or counter not found
	ErrCodeFailed     = "E007" // Checks or vectors failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value any
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Record outputs fields as key=value lines, or as one JSON object.
func (f *OutputFormatter) Record(fields []Field) error {
	if f.Format == "json" {
		obj := make(map[string]any, len(fields))
		for _, fld := range fields {
			obj[fld.Key] = fld.Value
		}
		return f.Success(obj)
	}

	for _, fld := range fields {
		fmt.Fprintf(f.Writer, "%s=%v\n", fld.Key, fld.Value)
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the matching ExitError. Configuration,
// storage and contention errors are command errors (exit 2).
func (f *OutputFormatter) Fail(err error) error {
	code := errorCode(err)
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

func errorCode(err error) string {
	switch {
	case wid.IsConfigError(err):
		return ErrCodeConfig
	case store.IsContentionError(err):
		return ErrCodeContention
	case wid.IsRejected(err):
		return ErrCodeInvalidID
	case errors.Is(err, store.ErrCounterMissing):
		return ErrCodeNotFound
	case errors.As(err, new(*storageError)):
		return ErrCodeStorage
	default:
		return ErrCodeGeneric
	}
}

// storageError marks failures to open or use the counter store.
type storageError struct {
	err error
}

func (e *storageError) Error() string { return "storage: " + e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }

// Reported reports whether err came from a command that already printed
// its outcome. Anything else (usage errors from cobra) still needs printing.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}
