package booking

import (
    "errors"
    "fmt"
    "time"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// Code identifies an expected, recoverable-by-caller outcome.  The API
// layer translates codes to HTTP statuses; none of them is a crash.
type Code string

const (
    CodeNotFound           Code = "NOT_FOUND"
    CodeInvalidRange       Code = "INVALID_RANGE"
    CodeCapacityExceeded   Code = "CAPACITY_EXCEEDED"
    CodeDateBlocked        Code = "DATE_BLOCKED"
    CodeDateConflict       Code = "DATE_CONFLICT"
    CodeGuestCountMismatch Code = "GUEST_COUNT_MISMATCH"
    CodeInvalidTransition  Code = "INVALID_TRANSITION"
    CodeAlreadyTerminal    Code = "ALREADY_TERMINAL"
    CodeStorageFailure     Code = "STORAGE_FAILURE"
)

// Error is a coded engine outcome.  Conflict-shaped codes carry the
// diagnostics the API layer shows to the customer: the earliest blocking
// calendar date, or the reservations that overlap the requested range.
type Error struct {
    Code         Code
    Message      string
    BlockingDate *time.Time
    Conflicts    []model.Reservation
}

func (e *Error) Error() string {
    if e.Message == "" {
        return string(e.Code)
    }
    return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// E builds a plain coded error.
func E(code Code, msg string) *Error {
    return &Error{Code: code, Message: msg}
}

// CodeOf extracts the engine code from err.  The second return is false
// for infrastructure errors, which the API layer reports as
// STORAGE_FAILURE.
func CodeOf(err error) (Code, bool) {
    var e *Error
    if errors.As(err, &e) {
        return e.Code, true
    }
    return "", false
}

// AsError returns the coded error inside err, if any.
func AsError(err error) (*Error, bool) {
    var e *Error
    ok := errors.As(err, &e)
    return e, ok
}
