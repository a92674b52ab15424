package booking

import (
    "encoding/json"
    "time"

    "github.com/google/uuid"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// eventPayload is the JSON body stored with every booking event and
// forwarded to the broker.  It carries enough for the notification layer
// to act without querying the primary database.
type eventPayload struct {
    Reference    string `json:"reference"`
    ItemID       uint64 `json:"item_id"`
    ItemKind     string `json:"item_kind"`
    StartDate    string `json:"start_date"`
    EndDate      string `json:"end_date"`
    GuestCount   uint32 `json:"guest_count"`
    Status       string `json:"status"`
    TotalCents   int64  `json:"total_cents"`
    ContactEmail string `json:"contact_email,omitempty"`
}

// newBookingEvent builds the idempotent event record for a reservation
// state change.  The UUID lets consumers deduplicate across retries.
func newBookingEvent(res model.Reservation, eventType string, now time.Time) model.BookingEvent {
    payload, _ := json.Marshal(eventPayload{
        Reference:    res.Reference,
        ItemID:       res.ItemID,
        ItemKind:     string(res.ItemKind),
        StartDate:    res.StartDate.Format("2006-01-02"),
        EndDate:      res.EndDate.Format("2006-01-02"),
        GuestCount:   res.GuestCount,
        Status:       string(res.Status),
        TotalCents:   res.TotalCents,
        ContactEmail: res.ContactEmail,
    })
    return model.BookingEvent{
        ID:            uuid.NewString(),
        ReservationID: res.ID,
        EventType:     eventType,
        Payload:       payload,
        OccurredAt:    now,
    }
}
