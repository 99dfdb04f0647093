package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Kind categorizes why an operation was rejected.
type Kind string

const (
	// KindValidation indicates a malformed or out-of-range field.
	KindValidation Kind = "VALIDATION"

	// KindInterval indicates an end time not after the start time.
	KindInterval Kind = "INTERVAL"

	// KindPastTime indicates a meeting starting before now.
	KindPastTime Kind = "PAST_TIME"

	// KindConflict indicates a participant already booked in the interval.
	KindConflict Kind = "CONFLICT"

	// KindMissingParticipants indicates a meeting or event without any
	// resolvable participant.
	KindMissingParticipants Kind = "MISSING_PARTICIPANTS"

	// KindStore indicates a persistence failure.
	KindStore Kind = "STORE"

	// KindEmpty indicates a query that matched nothing where something was
	// required.
	KindEmpty Kind = "EMPTY"
)

// Error is a rejection carrying a human-readable message.
type Error struct {
	Kind    Kind
	Message string

	// Conflicts lists every conflicting participant (KindConflict only).
	Conflicts []Conflict

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a persistence failure.
func StoreError(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

// ConflictError builds the rejection for a non-empty conflict set. The
// message names each conflicting person once, sorted.
func ConflictError(conflicts []Conflict) *Error {
	names := lo.Uniq(lo.Map(conflicts, func(c Conflict, _ int) string { return c.Name }))
	sort.Strings(names)
	return &Error{
		Kind:      KindConflict,
		Message:   "Schedule conflict for: " + strings.Join(names, ", "),
		Conflicts: conflicts,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsInterval reports whether err is an invalid-interval rejection.
func IsInterval(err error) bool { return KindOf(err) == KindInterval }

// IsPastTime reports whether err is a past-start rejection.
func IsPastTime(err error) bool { return KindOf(err) == KindPastTime }

// IsConflict reports whether err is a double-booking rejection.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsMissingParticipants reports whether err is a missing-participants rejection.
func IsMissingParticipants(err error) bool { return KindOf(err) == KindMissingParticipants }

// IsStore reports whether err is a persistence failure.
func IsStore(err error) bool { return KindOf(err) == KindStore }

// IsEmpty reports whether err is an empty-result rejection.
func IsEmpty(err error) bool { return KindOf(err) == KindEmpty }
