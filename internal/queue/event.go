// Package queue defines message payloads exchanged over the message broker.
package queue

import "encoding/json"

// QueueName is the durable queue every booking lifecycle event flows
// through.  One queue keeps ordering per broker simple; consumers switch
// on EventType.
const QueueName = "booking.events"

// BookingEventMessage is the broker copy of a booking_events row.  The
// EventID mirrors the row's UUID so consumers can deduplicate redelivered
// messages against what they have already processed.
type BookingEventMessage struct {
    EventID       string          `json:"event_id"`
    ReservationID uint64          `json:"reservation_id"`
    EventType     string          `json:"event_type"`
    Payload       json.RawMessage `json:"payload"`
    OccurredAt    string          `json:"occurred_at"`
}
