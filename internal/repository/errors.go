// Package repository implements MySQL data access for the booking
// engine.  Sentinel errors defined here let the core and the handlers
// distinguish expected failure shapes (missing rows, reference
// collisions) from infrastructure faults without inspecting driver
// errors themselves.
package repository

import "errors"

// ErrItemNotFound is returned when no item exists for the requested kind
// and id.  The core maps it to a NOT_FOUND verdict.
var ErrItemNotFound = errors.New("item not found")

// ErrReservationNotFound is returned when a reservation id does not
// exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicateReference is returned when inserting a reservation whose
// human-readable reference collides with an existing one.  The
// orchestrator regenerates and retries a bounded number of times.
var ErrDuplicateReference = errors.New("duplicate booking reference")
