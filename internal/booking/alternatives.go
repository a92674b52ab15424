package booking

import (
    "context"
    "fmt"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// Alternative is one bookable window of the requested duration near the
// preferred start date.
type Alternative struct {
    Range      model.DateRange
    TotalCents int64
}

// AlternativeFinder searches nearby date windows when the requested one
// is unavailable.  It only proposes windows the availability checker
// itself accepts, so a suggestion can never immediately fail a re-check
// against the same snapshot.
type AlternativeFinder struct {
    checker *AvailabilityService
    policy  Policy
}

// NewAlternativeFinder returns a finder driving the given checker.
func NewAlternativeFinder(checker *AvailabilityService, policy Policy) *AlternativeFinder {
    return &AlternativeFinder{checker: checker, policy: policy}
}

// Find scans candidate start dates outward from preferredStart in both
// directions (+1, -1, +2, -2, ... days), checking a window of
// durationDays at each offset, until maxResults windows are collected or
// the search radius is exhausted.  Results come back ordered by absolute
// distance from the preferred start; on equal distance the forward window
// wins, because it is tried first.  At most 2×window candidates are ever
// evaluated.
func (f *AlternativeFinder) Find(ctx context.Context, kind model.ItemKind, itemID uint64, preferredStart model.DateRange, guestCount uint32) ([]Alternative, error) {
    durationDays := preferredStart.Nights()
    if durationDays < 1 {
        return nil, E(CodeInvalidRange, "duration must be at least one night")
    }
    window := f.policy.SearchWindowDays
    maxResults := f.policy.MaxAlternatives

    found := make([]Alternative, 0, maxResults)
    for dist := 1; dist <= window && len(found) < maxResults; dist++ {
        for _, offset := range []int{dist, -dist} {
            if len(found) >= maxResults {
                break
            }
            candidate := preferredStart.Shift(offset)
            res, err := f.checker.Check(ctx, CheckInput{
                Kind:       kind,
                ItemID:     itemID,
                Range:      candidate,
                GuestCount: guestCount,
            })
            if err != nil {
                return nil, fmt.Errorf("check candidate %s: %w", candidate.Start.Format("2006-01-02"), err)
            }
            if res.Available {
                found = append(found, Alternative{Range: candidate, TotalCents: res.TotalCents})
            }
        }
    }
    return found, nil
}
