package booking

import (
    "context"
    "time"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// PricingService derives the total price for a date range from the item's
// base price per night and any calendar overrides.  All arithmetic is in
// integer cents so multi-night sums can never drift.
type PricingService struct {
    store ReadStore
}

// NewPricingService returns a calculator bound to the given store.
func NewPricingService(store ReadStore) *PricingService {
    return &PricingService{store: store}
}

// Price returns the total in cents for booking the item over r.  It does
// not check availability; callers wanting a bookable quote go through the
// availability checker, which prices only ranges that pass every check.
func (s *PricingService) Price(ctx context.Context, kind model.ItemKind, itemID uint64, r model.DateRange) (int64, error) {
    if !r.Valid() {
        return 0, E(CodeInvalidRange, "start date must be before end date")
    }
    item, err := s.store.GetItem(ctx, kind, itemID)
    if err != nil {
        return 0, err
    }
    entries, err := s.store.CalendarEntries(ctx, itemID, r)
    if err != nil {
        return 0, err
    }
    return totalForRange(item, entries, r), nil
}

// totalForRange sums the per-night price across [r.Start, r.End).  Nights
// without a calendar override cost the item's base price.
func totalForRange(item model.Item, entries []model.CalendarEntry, r model.DateRange) int64 {
    overrides := make(map[time.Time]int64, len(entries))
    for _, e := range entries {
        if e.PriceOverrideCents != nil {
            overrides[model.DateOnly(e.Date)] = *e.PriceOverrideCents
        }
    }
    var total int64
    for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
        if v, ok := overrides[d]; ok {
            total += v
        } else {
            total += item.BasePriceCents
        }
    }
    return total
}
