package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/roach88/meetsched/internal/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation rejected (validation, conflict, past time, etc.)
	ExitCommandError = 2 // Command error (bad flags, config, database unavailable, etc.)
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Configuration error
	ErrCodeDatabase    = "E003" // Database open/schema error
	ErrCodeBadInput    = "E004" // Malformed flag or argument
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeReadFailed  = "E006" // File read error
	ErrCodeWriteFailed = "E007" // File write error

	// Scheduling rejections
	ErrCodeValidation   = "E201" // Invalid field
	ErrCodeInterval     = "E202" // End not after start
	ErrCodePastTime     = "E203" // Start in the past
	ErrCodeConflict     = "E204" // Participant double-booked
	ErrCodeParticipants = "E205" // No (known) participants
	ErrCodeEmpty        = "E206" // Nothing to export
	ErrCodeStore        = "E301" // Database failure during an operation
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
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E201", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. In text
// mode message is printed; in JSON mode data is the payload.
func (f *OutputFormatter) Success(message string, data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, message)
	return err
}

// Table outputs rows as an aligned text table, or data as JSON.
func (f *OutputFormatter) Table(header []string, rows [][]string, data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.Writer, "(none)")
		return err
	}

	table := tablewriter.NewWriter(f.Writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
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
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Fail reports err and returns the ExitError the command should return.
// Domain rejections exit with ExitFailure; anything else is a command error.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)

	var details any
	var de *domain.Error
	if errors.As(err, &de) && len(de.Conflicts) > 0 {
		details = de.Conflicts
	}

	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

// classify maps an error to its CLI error code and exit code.
func classify(err error) (string, int) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return ErrCodeValidation, ExitFailure
	case domain.KindInterval:
		return ErrCodeInterval, ExitFailure
	case domain.KindPastTime:
		return ErrCodePastTime, ExitFailure
	case domain.KindConflict:
		return ErrCodeConflict, ExitFailure
	case domain.KindMissingParticipants:
		return ErrCodeParticipants, ExitFailure
	case domain.KindEmpty:
		return ErrCodeEmpty, ExitFailure
	case domain.KindStore:
		return ErrCodeStore, ExitCommandError
	}
	return ErrCodeGeneric, ExitCommandError
}

// commandError reports a command-level failure with an explicit code.
func (f *OutputFormatter) commandError(code, message string, err error) error {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, text, nil)
	return WrapExitError(ExitCommandError, code+": "+message, err)
}
