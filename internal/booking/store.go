package booking

import (
    "context"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// ReadStore is the read side of the backing store.  The checker and
// pricing calculator use only these; they never write.  Implementations
// route through an in-flight transaction when the context carries one, so
// the same methods serve both the public (pure-read) check and the
// re-check inside the booking transaction.
type ReadStore interface {
    // GetItem loads an item by kind and id.  Missing items surface as
    // repository.ErrItemNotFound; inactive items are returned as-is and
    // filtered by the checker.
    GetItem(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error)
    // CalendarEntries returns entries intersecting r ordered by date.
    // The calendar is sparse; absent dates mean available at base price.
    CalendarEntries(ctx context.Context, itemID uint64, r model.DateRange) ([]model.CalendarEntry, error)
    // FindOverlapping returns reservations on the item whose half-open
    // range intersects r and whose status is in statuses, excluding
    // excludeID when non-zero, ordered by start date.
    FindOverlapping(ctx context.Context, itemID uint64, r model.DateRange, statuses []model.ReservationStatus, excludeID uint64) ([]model.Reservation, error)
}

// LedgerStore is what the orchestrator needs: the read side plus a
// transaction scope, the per-item lock and the insert operations.
type LedgerStore interface {
    ReadStore
    // WithTx runs fn inside a single transaction.  fn's context carries
    // the transaction; returning an error rolls everything back.
    WithTx(ctx context.Context, fn func(ctx context.Context) error) error
    // LockItem reads the item row FOR UPDATE.  Holding the row lock for
    // the duration of check+insert is the mutual-exclusion mechanism that
    // keeps two overlapping bookings from both committing.
    LockItem(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error)
    // CreateReservation inserts the row and fills in generated fields.
    // A reference collision surfaces as repository.ErrDuplicateReference.
    CreateReservation(ctx context.Context, res *model.Reservation) error
    // CreateGuests bulk-inserts the roster.
    CreateGuests(ctx context.Context, guests []model.Guest) error
    // InsertEvent appends one row to the notification feed.
    InsertEvent(ctx context.Context, ev model.BookingEvent) error
}

// LifecycleStore adds the mutations the lifecycle manager performs on an
// existing reservation.
type LifecycleStore interface {
    LedgerStore
    GetReservation(ctx context.Context, id uint64) (model.Reservation, error)
    // LockReservation reads the reservation row FOR UPDATE so concurrent
    // transitions serialize.
    LockReservation(ctx context.Context, id uint64) (model.Reservation, error)
    UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
    UpdateReservationSchedule(ctx context.Context, id uint64, r model.DateRange, guestCount uint32, totalCents int64) error
    CreateCancellation(ctx context.Context, rec *model.CancellationRecord) error
}

// EventPublisher fans a persisted booking event out to the message
// broker.  Publishing is best-effort: the event row is already committed,
// so a broker failure loses nothing.
type EventPublisher interface {
    PublishBookingEvent(ctx context.Context, ev model.BookingEvent) error
}
