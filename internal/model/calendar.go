package model

import "time"

// CalendarEntry is one date of one item's availability calendar.  Entries
// are written by external admin tooling and are read-only here.  The
// calendar is sparse: a date with no entry is available at the item's
// base price.  At most one entry exists per (item, date).
//
// Fields:
//  ID                 – primary key identifier.
//  ItemID             – item the entry belongs to.
//  Date               – calendar date, normalized to UTC midnight.
//  Available          – explicit block (false) or unblock (true).
//  PriceOverrideCents – per-night price for this date; nil falls back to
//                       the item's base price.
type CalendarEntry struct {
    ID                 uint64    // calendar_entries.id
    ItemID             uint64    // calendar_entries.item_id
    Date               time.Time // calendar_entries.entry_date
    Available          bool      // calendar_entries.available
    PriceOverrideCents *int64    // calendar_entries.price_override_cents (nullable)
}
