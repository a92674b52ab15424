package booking

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/amryassin/nile-cruise-booking/internal/model"
    "github.com/amryassin/nile-cruise-booking/internal/repository"
)

// CheckInput describes one availability question: can this item host this
// many guests over this half-open date range?  ExcludeReservationID is
// set when re-validating a reservation that is being modified, so it does
// not conflict with itself.
type CheckInput struct {
    Kind                 model.ItemKind
    ItemID               uint64
    Range                model.DateRange
    GuestCount           uint32
    ExcludeReservationID uint64
}

// CheckResult is the discriminated verdict.  When Available is false,
// Reason carries the code and, depending on it, BlockingDate names the
// earliest blocked calendar date or Conflicts lists the overlapping
// reservations.  TotalCents is filled only for available ranges.
type CheckResult struct {
    Available    bool
    Reason       Code
    Message      string
    BlockingDate *time.Time
    Conflicts    []model.Reservation
    TotalCents   int64
}

// Err converts an unavailable result into the coded error the
// orchestrator aborts with.  Calling it on an available result is a
// programming error and returns nil.
func (r CheckResult) Err() error {
    if r.Available {
        return nil
    }
    return &Error{
        Code:         r.Reason,
        Message:      r.Message,
        BlockingDate: r.BlockingDate,
        Conflicts:    r.Conflicts,
    }
}

// AvailabilityService answers availability questions.  It is a pure
// reader: nothing it does mutates state, so a passing check is only a
// snapshot.  Atomicity is the orchestrator's job, which re-runs the same
// check inside the booking transaction while holding the item lock.
type AvailabilityService struct {
    store  ReadStore
    clock  Clock
    policy Policy
}

// NewAvailabilityService returns a checker using the given store, clock
// and policy.
func NewAvailabilityService(store ReadStore, clock Clock, policy Policy) *AvailabilityService {
    return &AvailabilityService{store: store, clock: clock, policy: policy}
}

// Check runs the full availability algorithm:
//
//  1. validate the range and guest count
//  2. item must exist, be active and match the requested kind
//  3. guest count must fit the item capacity
//  4. no calendar date in the range may be explicitly blocked (the
//     earliest blocked date is reported, deterministically)
//  5. no PENDING or CONFIRMED reservation may overlap the range
//
// Ranges that survive all five are priced.  An error return means the
// store failed; every expected outcome lives in the CheckResult.
func (s *AvailabilityService) Check(ctx context.Context, in CheckInput) (CheckResult, error) {
    if !in.Range.Valid() {
        return unavailable(CodeInvalidRange, "start date must be before end date"), nil
    }
    if in.GuestCount < 1 {
        return unavailable(CodeInvalidRange, "guest count must be at least 1"), nil
    }
    if !s.policy.AllowPastDates {
        today := model.DateOnly(s.clock.Now())
        if in.Range.Start.Before(today) {
            return unavailable(CodeInvalidRange, "start date is in the past"), nil
        }
    }

    item, err := s.store.GetItem(ctx, in.Kind, in.ItemID)
    if err != nil {
        if errors.Is(err, repository.ErrItemNotFound) {
            return unavailable(CodeNotFound, "item not found"), nil
        }
        return CheckResult{}, fmt.Errorf("load item: %w", err)
    }
    if !item.Active {
        return unavailable(CodeNotFound, "item is not active"), nil
    }
    if in.GuestCount > item.Capacity {
        return unavailable(CodeCapacityExceeded,
            fmt.Sprintf("item holds at most %d guests", item.Capacity)), nil
    }

    entries, err := s.store.CalendarEntries(ctx, in.ItemID, in.Range)
    if err != nil {
        return CheckResult{}, fmt.Errorf("load calendar: %w", err)
    }
    // Entries come back ordered by date, so the first blocked one is the
    // earliest.
    for _, e := range entries {
        if !e.Available {
            blocked := model.DateOnly(e.Date)
            res := unavailable(CodeDateBlocked, "date "+blocked.Format("2006-01-02")+" is blocked")
            res.BlockingDate = &blocked
            return res, nil
        }
    }

    conflicts, err := s.store.FindOverlapping(ctx, in.ItemID, in.Range, model.BlockingStatuses, in.ExcludeReservationID)
    if err != nil {
        return CheckResult{}, fmt.Errorf("load overlapping reservations: %w", err)
    }
    if len(conflicts) > 0 {
        res := unavailable(CodeDateConflict, "an existing reservation overlaps the requested range")
        res.Conflicts = conflicts
        return res, nil
    }

    return CheckResult{
        Available:  true,
        TotalCents: totalForRange(item, entries, in.Range),
    }, nil
}

func unavailable(code Code, msg string) CheckResult {
    return CheckResult{Available: false, Reason: code, Message: msg}
}
