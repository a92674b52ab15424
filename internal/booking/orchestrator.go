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

// CreateInput carries everything needed to book an item.  UserID is nil
// for guest bookings, which instead supply the denormalized contact
// fields.  The roster is optional; when present its length must equal
// GuestCount.
type CreateInput struct {
    Kind            model.ItemKind
    ItemID          uint64
    Range           model.DateRange
    GuestCount      uint32
    UserID          *uint64
    ContactName     string
    ContactEmail    string
    SpecialRequests string
    Roster          []model.Guest
}

// BookingService is the atomic entry point for creating reservations.
// The availability check and the insert run in one transaction while the
// item row is locked, so two concurrent requests for overlapping ranges
// cannot both commit.
type BookingService struct {
    store     LedgerStore
    checker   *AvailabilityService
    clock     Clock
    policy    Policy
    publisher EventPublisher // may be nil; publishing is best-effort
}

// NewBookingService wires the orchestrator.  publisher may be nil when no
// broker is configured.
func NewBookingService(store LedgerStore, checker *AvailabilityService, clock Clock, policy Policy, publisher EventPublisher) *BookingService {
    return &BookingService{store: store, checker: checker, clock: clock, policy: policy, publisher: publisher}
}

// Create books the item or returns a coded error.  The whole operation is
// bounded by the policy timeout; a timeout rolls the transaction back with
// no partial writes.  Infrastructure failures are retried a bounded
// number of times with backoff before surfacing as STORAGE_FAILURE;
// conflict outcomes are never retried.
func (s *BookingService) Create(ctx context.Context, in CreateInput) (model.Reservation, error) {
    if len(in.Roster) > 0 && uint32(len(in.Roster)) != in.GuestCount {
        return model.Reservation{}, E(CodeGuestCountMismatch,
            fmt.Sprintf("roster has %d guests, booking declares %d", len(in.Roster), in.GuestCount))
    }
    if in.UserID == nil && in.ContactEmail == "" {
        // INVALID_RANGE doubles as the generic bad-input code; there is
        // no dedicated contact-field code, so the message carries the
        // detail.
        return model.Reservation{}, E(CodeInvalidRange, "guest bookings require a contact email")
    }

    ctx, cancel := context.WithTimeout(ctx, s.policy.OperationTimeout)
    defer cancel()

    var (
        res model.Reservation
        ev  model.BookingEvent
    )
    err := s.retryStorage(ctx, func() error {
        return s.store.WithTx(ctx, func(txCtx context.Context) error {
            created, createdEv, err := s.createTx(txCtx, in)
            if err != nil {
                return err
            }
            res, ev = created, createdEv
            return nil
        })
    })
    if err != nil {
        return model.Reservation{}, err
    }

    // Publish the exact event committed to the ledger, same id and all,
    // so broker consumers and outbox readers see one event, not two.
    s.publish(ctx, ev)
    return res, nil
}

// createTx is the body of the booking transaction.  The item row lock
// acquired first serializes every concurrent create/modify on this item,
// which makes the subsequent check-then-insert safe.  It returns the
// created event alongside the reservation so the caller can publish the
// committed value.
func (s *BookingService) createTx(ctx context.Context, in CreateInput) (model.Reservation, model.BookingEvent, error) {
    if _, err := s.store.LockItem(ctx, in.Kind, in.ItemID); err != nil {
        if errors.Is(err, repository.ErrItemNotFound) {
            return model.Reservation{}, model.BookingEvent{}, E(CodeNotFound, "item not found")
        }
        return model.Reservation{}, model.BookingEvent{}, fmt.Errorf("lock item: %w", err)
    }

    check, err := s.checker.Check(ctx, CheckInput{
        Kind:       in.Kind,
        ItemID:     in.ItemID,
        Range:      in.Range,
        GuestCount: in.GuestCount,
    })
    if err != nil {
        return model.Reservation{}, model.BookingEvent{}, err
    }
    if !check.Available {
        return model.Reservation{}, model.BookingEvent{}, check.Err()
    }

    res := model.Reservation{
        ItemID:          in.ItemID,
        ItemKind:        in.Kind,
        UserID:          in.UserID,
        ContactName:     in.ContactName,
        ContactEmail:    in.ContactEmail,
        StartDate:       in.Range.Start,
        EndDate:         in.Range.End,
        GuestCount:      in.GuestCount,
        Status:          model.StatusPending,
        TotalCents:      check.TotalCents,
        SpecialRequests: in.SpecialRequests,
    }

    // References collide rarely; regenerate a bounded number of times.
    for attempt := 0; ; attempt++ {
        ref, err := newReference()
        if err != nil {
            return model.Reservation{}, model.BookingEvent{}, err
        }
        res.Reference = ref
        err = s.store.CreateReservation(ctx, &res)
        if err == nil {
            break
        }
        if errors.Is(err, repository.ErrDuplicateReference) && attempt < maxReferenceAttempts-1 {
            continue
        }
        return model.Reservation{}, model.BookingEvent{}, fmt.Errorf("insert reservation: %w", err)
    }

    if len(in.Roster) > 0 {
        guests := make([]model.Guest, len(in.Roster))
        copy(guests, in.Roster)
        for i := range guests {
            guests[i].ReservationID = res.ID
        }
        if err := s.store.CreateGuests(ctx, guests); err != nil {
            return model.Reservation{}, model.BookingEvent{}, fmt.Errorf("insert guest roster: %w", err)
        }
        res.Guests = guests
    }

    ev := newBookingEvent(res, model.EventBookingCreated, s.clock.Now())
    if err := s.store.InsertEvent(ctx, ev); err != nil {
        return model.Reservation{}, model.BookingEvent{}, fmt.Errorf("insert booking event: %w", err)
    }
    return res, ev, nil
}

// retryStorage retries fn on infrastructure errors only.  Coded outcomes
// and context cancellation pass through untouched.
func (s *BookingService) retryStorage(ctx context.Context, fn func() error) error {
    backoff := s.policy.RetryBackoff
    attempts := s.policy.StorageRetries
    if attempts < 1 {
        attempts = 1
    }
    var err error
    for i := 0; i < attempts; i++ {
        err = fn()
        if err == nil {
            return nil
        }
        if _, coded := CodeOf(err); coded {
            return err
        }
        if ctx.Err() != nil {
            break
        }
        if i < attempts-1 {
            select {
            case <-time.After(backoff):
                backoff *= 2
            case <-ctx.Done():
                return fmt.Errorf("%s: %w", CodeStorageFailure, ctx.Err())
            }
        }
    }
    return fmt.Errorf("%s: %w", CodeStorageFailure, err)
}

func (s *BookingService) publish(ctx context.Context, ev model.BookingEvent) {
    if s.publisher == nil {
        return
    }
    if err := s.publisher.PublishBookingEvent(ctx, ev); err != nil {
        // The event row is committed; the broker copy is a convenience.
        log.Printf("booking: publish event %s failed: %v", ev.EventType, err)
    }
}
