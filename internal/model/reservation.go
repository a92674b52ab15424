package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// COMPLETED, CANCELLED and REFUNDED are terminal.
type ReservationStatus string

const (
    StatusPending   ReservationStatus = "PENDING"
    StatusConfirmed ReservationStatus = "CONFIRMED"
    StatusCancelled ReservationStatus = "CANCELLED"
    StatusCompleted ReservationStatus = "COMPLETED"
    StatusRefunded  ReservationStatus = "REFUNDED"
)

// Terminal reports whether s is an end state.  CANCELLED still admits the
// CANCELLED→REFUNDED transition, which the lifecycle manager special-cases.
func (s ReservationStatus) Terminal() bool {
    return s == StatusCancelled || s == StatusCompleted || s == StatusRefunded
}

// Blocking reports whether a reservation in this status occupies its date
// range for conflict detection.
func (s ReservationStatus) Blocking() bool {
    return s == StatusPending || s == StatusConfirmed
}

// BlockingStatuses is the status set the ledger consults when looking for
// overlapping reservations.
var BlockingStatuses = []ReservationStatus{StatusPending, StatusConfirmed}

// Reservation is a hold on an item for a contiguous half-open date range.
// It is the root aggregate of the engine: guests and the cancellation
// record live and die with it.  Rows are created only by the booking
// orchestrator and mutated only by the lifecycle manager.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – short human-readable booking reference, unique.
//  ItemID          – item being booked.
//  ItemKind        – kind of the booked item (denormalized for display).
//  UserID          – booking account; nil for guest bookings.
//  ContactName     – denormalized contact for guest bookings.
//  ContactEmail    – denormalized contact for guest bookings.
//  StartDate       – first occupied night (inclusive), UTC midnight.
//  EndDate         – checkout date (exclusive), UTC midnight.
//  GuestCount      – declared number of guests.
//  Status          – lifecycle state.
//  TotalCents      – total price in cents for the whole range.
//  SpecialRequests – free-form customer notes.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
    ID              uint64            // reservations.id
    Reference       string            // reservations.reference
    ItemID          uint64            // reservations.item_id
    ItemKind        ItemKind          // reservations.item_kind
    UserID          *uint64           // reservations.user_id (nullable)
    ContactName     string            // reservations.contact_name
    ContactEmail    string            // reservations.contact_email
    StartDate       time.Time         // reservations.start_date
    EndDate         time.Time         // reservations.end_date
    GuestCount      uint32            // reservations.guest_count
    Status          ReservationStatus // reservations.status
    TotalCents      int64             // reservations.total_cents
    SpecialRequests string            // reservations.special_requests
    CreatedAt       time.Time         // reservations.created_at
    UpdatedAt       time.Time         // reservations.updated_at

    Guests []Guest // loaded on demand; owned by the reservation
}

// Range returns the reservation's occupied date range.
func (r Reservation) Range() DateRange {
    return DateRange{Start: r.StartDate, End: r.EndDate}
}

// Guest is one traveller on a reservation's roster.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation.
//  FullName      – traveller name as it appears on the document.
//  Nationality   – country name or code, free-form.
//  DocumentID    – passport or national ID number.
//  DietaryNotes  – optional dietary requirements.
type Guest struct {
    ID            uint64 // reservation_guests.id
    ReservationID uint64 // reservation_guests.reservation_id
    FullName      string // reservation_guests.full_name
    Nationality   string // reservation_guests.nationality
    DocumentID    string // reservation_guests.document_id
    DietaryNotes  string // reservation_guests.dietary_notes
}

// CancellationRecord is attached 1:1 to a cancelled reservation.  Written
// once in the same transaction that flips the status, immutable after.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – cancelled reservation, unique.
//  Reason        – customer- or admin-supplied reason.
//  FeeCents      – fee charged per the tier policy.
//  RefundCents   – total minus fee.
//  Actor         – who triggered the cancellation.
//  CancelledAt   – when the cancellation was recorded.
type CancellationRecord struct {
    ID            uint64    // cancellation_records.id
    ReservationID uint64    // cancellation_records.reservation_id
    Reason        string    // cancellation_records.reason
    FeeCents      int64     // cancellation_records.fee_cents
    RefundCents   int64     // cancellation_records.refund_cents
    Actor         string    // cancellation_records.actor
    CancelledAt   time.Time // cancellation_records.cancelled_at
}
