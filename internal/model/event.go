package model

import "time"

// Booking event types recorded for the notification layer.
const (
    EventBookingCreated   = "booking.created"
    EventBookingConfirmed = "booking.confirmed"
    EventBookingCancelled = "booking.cancelled"
    EventBookingCompleted = "booking.completed"
    EventBookingRefunded  = "booking.refunded"
    EventBookingModified  = "booking.modified"
)

// BookingEvent is one row of the notification feed.  Events are inserted
// in the same transaction as the state change they report, so a retry in
// the notification layer can only ever re-read an event, never re-trigger
// booking logic.  The ID is a UUID so consumers can deduplicate.
type BookingEvent struct {
    ID            string    // booking_events.id (uuid)
    ReservationID uint64    // booking_events.reservation_id
    EventType     string    // booking_events.event_type
    Payload       []byte    // booking_events.payload (json)
    OccurredAt    time.Time // booking_events.occurred_at
}
