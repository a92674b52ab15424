package booking

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/amryassin/nile-cruise-booking/internal/model"
    "github.com/amryassin/nile-cruise-booking/internal/repository"
)

// allowedTransitions is the reservation state machine.  Anything not
// listed fails with INVALID_TRANSITION.
var allowedTransitions = map[model.ReservationStatus][]model.ReservationStatus{
    model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
    model.StatusConfirmed: {model.StatusCancelled, model.StatusCompleted},
    model.StatusCancelled: {model.StatusRefunded},
}

func transitionAllowed(from, to model.ReservationStatus) bool {
    for _, next := range allowedTransitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

var eventForStatus = map[model.ReservationStatus]string{
    model.StatusConfirmed: model.EventBookingConfirmed,
    model.StatusCancelled: model.EventBookingCancelled,
    model.StatusCompleted: model.EventBookingCompleted,
    model.StatusRefunded:  model.EventBookingRefunded,
}

// CancelResult reports what a cancellation cost.
type CancelResult struct {
    Reservation model.Reservation
    Record      model.CancellationRecord
}

// LifecycleService applies state transitions to existing reservations:
// plain status changes, tiered-fee cancellation and date/guest
// modification with re-validation.  Every mutation runs in its own
// transaction with the reservation row locked.
type LifecycleService struct {
    store     LifecycleStore
    checker   *AvailabilityService
    clock     Clock
    policy    Policy
    tiers     []FeeTier
    publisher EventPublisher // may be nil
}

// NewLifecycleService wires the lifecycle manager.  Passing nil tiers
// selects the default cancellation policy.
func NewLifecycleService(store LifecycleStore, checker *AvailabilityService, clock Clock, policy Policy, tiers []FeeTier, publisher EventPublisher) *LifecycleService {
    if tiers == nil {
        tiers = DefaultFeeTiers
    }
    return &LifecycleService{store: store, checker: checker, clock: clock, policy: policy, tiers: tiers, publisher: publisher}
}

// Transition moves a reservation to the target status when the state
// machine allows it.  CANCELLED is not reachable through here; use Cancel
// so the fee record is written.
func (s *LifecycleService) Transition(ctx context.Context, reservationID uint64, target model.ReservationStatus) (model.Reservation, error) {
    if target == model.StatusCancelled {
        return model.Reservation{}, E(CodeInvalidTransition, "use cancel to compute the fee")
    }
    ctx, cancel := context.WithTimeout(ctx, s.policy.OperationTimeout)
    defer cancel()

    var (
        res model.Reservation
        ev  model.BookingEvent
    )
    err := s.store.WithTx(ctx, func(txCtx context.Context) error {
        cur, err := s.lockReservation(txCtx, reservationID)
        if err != nil {
            return err
        }
        if !transitionAllowed(cur.Status, target) {
            return E(CodeInvalidTransition,
                fmt.Sprintf("cannot move %s from %s to %s", cur.Reference, cur.Status, target))
        }
        if err := s.store.UpdateReservationStatus(txCtx, cur.ID, target); err != nil {
            return fmt.Errorf("update status: %w", err)
        }
        cur.Status = target
        ev = newBookingEvent(cur, eventForStatus[target], s.clock.Now())
        if err := s.store.InsertEvent(txCtx, ev); err != nil {
            return fmt.Errorf("insert booking event: %w", err)
        }
        res = cur
        return nil
    })
    if err != nil {
        return model.Reservation{}, err
    }
    // Publish the committed event itself so the broker copy shares the
    // outbox row's id.
    s.publish(ctx, ev)
    return res, nil
}

// Cancel cancels a reservation, charging the tiered fee.  The fee rate
// depends on how many whole calendar days remain before the start date at
// the moment of cancellation, per the injected clock.  Status flip,
// cancellation record and event are written in one transaction.
func (s *LifecycleService) Cancel(ctx context.Context, reservationID uint64, reason, actor string) (CancelResult, error) {
    ctx, cancel := context.WithTimeout(ctx, s.policy.OperationTimeout)
    defer cancel()

    var (
        out CancelResult
        ev  model.BookingEvent
    )
    err := s.store.WithTx(ctx, func(txCtx context.Context) error {
        cur, err := s.lockReservation(txCtx, reservationID)
        if err != nil {
            return err
        }
        if cur.Status.Terminal() {
            return E(CodeAlreadyTerminal, fmt.Sprintf("%s is already %s", cur.Reference, cur.Status))
        }

        now := s.clock.Now()
        days := daysUntil(now, cur.StartDate)
        fee := feeFor(s.tiers, cur.TotalCents, days)
        rec := model.CancellationRecord{
            ReservationID: cur.ID,
            Reason:        reason,
            FeeCents:      fee,
            RefundCents:   cur.TotalCents - fee,
            Actor:         actor,
            CancelledAt:   now,
        }

        if err := s.store.UpdateReservationStatus(txCtx, cur.ID, model.StatusCancelled); err != nil {
            return fmt.Errorf("update status: %w", err)
        }
        if err := s.store.CreateCancellation(txCtx, &rec); err != nil {
            return fmt.Errorf("insert cancellation record: %w", err)
        }
        cur.Status = model.StatusCancelled
        ev = newBookingEvent(cur, model.EventBookingCancelled, now)
        if err := s.store.InsertEvent(txCtx, ev); err != nil {
            return fmt.Errorf("insert booking event: %w", err)
        }
        out = CancelResult{Reservation: cur, Record: rec}
        return nil
    })
    if err != nil {
        return CancelResult{}, err
    }
    s.publish(ctx, ev)
    return out, nil
}

// ModifyInput carries the new schedule for an existing reservation.
type ModifyInput struct {
    ReservationID uint64
    Range         model.DateRange
    GuestCount    uint32
}

// Modify re-validates the new range (excluding the reservation itself
// from conflict detection), then atomically updates range, guest count
// and recomputed price.  On any failure the reservation is untouched.
func (s *LifecycleService) Modify(ctx context.Context, in ModifyInput) (model.Reservation, error) {
    ctx, cancel := context.WithTimeout(ctx, s.policy.OperationTimeout)
    defer cancel()

    var (
        res model.Reservation
        ev  model.BookingEvent
    )
    err := s.store.WithTx(ctx, func(txCtx context.Context) error {
        cur, err := s.lockReservation(txCtx, in.ReservationID)
        if err != nil {
            return err
        }
        if cur.Status.Terminal() {
            return E(CodeAlreadyTerminal, fmt.Sprintf("%s is already %s", cur.Reference, cur.Status))
        }
        // Same item-level lock as the orchestrator, so a concurrent
        // create cannot slip between the check and the update.
        if _, err := s.store.LockItem(txCtx, cur.ItemKind, cur.ItemID); err != nil {
            return fmt.Errorf("lock item: %w", err)
        }

        check, err := s.checker.Check(txCtx, CheckInput{
            Kind:                 cur.ItemKind,
            ItemID:               cur.ItemID,
            Range:                in.Range,
            GuestCount:           in.GuestCount,
            ExcludeReservationID: cur.ID,
        })
        if err != nil {
            return err
        }
        if !check.Available {
            return check.Err()
        }

        if err := s.store.UpdateReservationSchedule(txCtx, cur.ID, in.Range, in.GuestCount, check.TotalCents); err != nil {
            return fmt.Errorf("update schedule: %w", err)
        }
        cur.StartDate = in.Range.Start
        cur.EndDate = in.Range.End
        cur.GuestCount = in.GuestCount
        cur.TotalCents = check.TotalCents
        ev = newBookingEvent(cur, model.EventBookingModified, s.clock.Now())
        if err := s.store.InsertEvent(txCtx, ev); err != nil {
            return fmt.Errorf("insert booking event: %w", err)
        }
        res = cur
        return nil
    })
    if err != nil {
        return model.Reservation{}, err
    }
    s.publish(ctx, ev)
    return res, nil
}

func (s *LifecycleService) lockReservation(ctx context.Context, id uint64) (model.Reservation, error) {
    cur, err := s.store.LockReservation(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return model.Reservation{}, E(CodeNotFound, "reservation not found")
        }
        return model.Reservation{}, fmt.Errorf("lock reservation: %w", err)
    }
    return cur, nil
}

func (s *LifecycleService) publish(ctx context.Context, ev model.BookingEvent) {
    if s.publisher == nil {
        return
    }
    if err := s.publisher.PublishBookingEvent(ctx, ev); err != nil {
        log.Printf("booking: publish event %s failed: %v", ev.EventType, err)
    }
}

// daysUntil returns the number of whole calendar days from now's date to
// the start date.  Both sides are truncated to UTC midnight first, so the
// result is a floor over calendar days.
func daysUntil(now, start time.Time) int {
    return int(model.DateOnly(start).Sub(model.DateOnly(now)) / (24 * time.Hour))
}
