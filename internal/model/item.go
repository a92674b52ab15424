package model

import "time"

// ItemKind discriminates the two bookable unit types.  A vessel is a
// single dahabiya chartered whole; a package bundles a cruise with its
// own independently configured capacity and price.
type ItemKind string

const (
    ItemKindVessel  ItemKind = "VESSEL"
    ItemKindPackage ItemKind = "PACKAGE"
)

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
    return k == ItemKindVessel || k == ItemKindPackage
}

// Item is a bookable unit.  The catalog that creates and edits items is
// external; the booking engine only ever reads them.
//
// Fields:
//  ID             – primary key identifier.
//  Kind           – VESSEL or PACKAGE.
//  Name           – display name of the vessel or package.
//  Capacity       – maximum number of guests per booking.
//  BasePriceCents – default price per night in cents.
//  Active         – whether the item is currently bookable.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Item struct {
    ID             uint64    // items.id
    Kind           ItemKind  // items.kind
    Name           string    // items.name
    Capacity       uint32    // items.capacity
    BasePriceCents int64     // items.base_price_cents
    Active         bool      // items.active
    CreatedAt      time.Time // items.created_at
    UpdatedAt      time.Time // items.updated_at
}
