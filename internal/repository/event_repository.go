package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// EventRepo persists the notification feed.  Rows are inserted in the
// same transaction as the booking change they describe, so the feed can
// never report a change that was rolled back.  The UUID primary key
// makes re-inserting the same event a harmless duplicate-key error.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Insert appends one event row.  A duplicate id is treated as already
// recorded and ignored.
func (r *EventRepo) Insert(ctx context.Context, ev model.BookingEvent) error {
    const q = `INSERT INTO booking_events (id, reservation_id, event_type, payload, occurred_at)
               VALUES (?, ?, ?, ?, ?)`
    _, err := runner(ctx, r.db).ExecContext(ctx, q,
        ev.ID, ev.ReservationID, ev.EventType, ev.Payload,
        ev.OccurredAt.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        if isDuplicateEntry(err) {
            return nil
        }
        return fmt.Errorf("insert booking event: %w", err)
    }
    return nil
}

// ListByReservation returns the event history of one reservation, oldest
// first.
func (r *EventRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.BookingEvent, error) {
    const q = `SELECT id, reservation_id, event_type, payload, occurred_at
               FROM booking_events WHERE reservation_id = ? ORDER BY occurred_at, id`
    rows, err := runner(ctx, r.db).QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, fmt.Errorf("query booking events: %w", err)
    }
    defer rows.Close()

    var out []model.BookingEvent
    for rows.Next() {
        var ev model.BookingEvent
        if err := rows.Scan(&ev.ID, &ev.ReservationID, &ev.EventType, &ev.Payload, &ev.OccurredAt); err != nil {
            return nil, fmt.Errorf("scan booking event: %w", err)
        }
        out = append(out, ev)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
