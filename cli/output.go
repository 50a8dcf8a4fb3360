package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/warp/paperwork/books"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (validation, bad stored data)
	ExitCommandError = 2 // Command error (bad flags, config, database not reachable)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// CLIResponse is the JSON envelope for --format=json.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a failed CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // see errorCode
	Message string `json:"message"`
	Details string `json:"details,omitempty"` // underlying cause, when wrapped
}

// Success writes data. In text mode, text is printed instead.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprint(f.Writer, text)
	return err
}

// Error reports a failed command. JSON goes to Writer as an envelope so
// scripts parse one shape for both outcomes; text is a single line.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		cliErr := &CLIError{Code: errorCode(err), Message: err.Error()}
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err != nil {
			cliErr.Message = exitErr.Message
			cliErr.Details = exitErr.Err.Error()
		}
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: cliErr})
	}
	_, werr := fmt.Fprintf(f.Writer, "Error: %v\n", err)
	return werr
}

// errorCode classifies err for the JSON envelope.
func errorCode(err error) string {
	switch {
	case books.IsValidation(err):
		return "validation"
	case books.IsPersistence(err):
		return "persistence"
	case GetExitCode(err) == ExitCommandError:
		return "command"
	default:
		return "failure"
	}
}
