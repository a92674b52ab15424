package repository

import (
    "context"
    "database/sql"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// Store bundles the individual repositories behind the interfaces the
// booking core depends on.  Handlers that need richer queries (listing,
// lookups by reference) reach the repositories directly.
type Store struct {
    db           *sql.DB
    Items        *ItemRepo
    Calendar     *CalendarRepo
    Reservations *ReservationRepo
    Events       *EventRepo
}

// NewStore builds the full repository set over one connection pool.
func NewStore(db *sql.DB) *Store {
    return &Store{
        db:           db,
        Items:        NewItemRepo(db),
        Calendar:     NewCalendarRepo(db),
        Reservations: NewReservationRepo(db),
        Events:       NewEventRepo(db),
    }
}

// WithTx runs fn inside one transaction; the transaction travels in fn's
// context so every repository call below joins it.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
    return withTx(ctx, s.db, fn)
}

func (s *Store) GetItem(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error) {
    return s.Items.GetByID(ctx, kind, id)
}

func (s *Store) LockItem(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error) {
    return s.Items.LockByID(ctx, kind, id)
}

func (s *Store) CalendarEntries(ctx context.Context, itemID uint64, r model.DateRange) ([]model.CalendarEntry, error) {
    return s.Calendar.EntriesInRange(ctx, itemID, r)
}

func (s *Store) FindOverlapping(ctx context.Context, itemID uint64, r model.DateRange, statuses []model.ReservationStatus, excludeID uint64) ([]model.Reservation, error) {
    return s.Reservations.FindOverlapping(ctx, itemID, r, statuses, excludeID)
}

func (s *Store) CreateReservation(ctx context.Context, res *model.Reservation) error {
    return s.Reservations.Create(ctx, res)
}

func (s *Store) CreateGuests(ctx context.Context, guests []model.Guest) error {
    return s.Reservations.CreateGuests(ctx, guests)
}

func (s *Store) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
    return s.Reservations.GetByID(ctx, id)
}

func (s *Store) LockReservation(ctx context.Context, id uint64) (model.Reservation, error) {
    return s.Reservations.LockByID(ctx, id)
}

func (s *Store) UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
    return s.Reservations.UpdateStatus(ctx, id, status)
}

func (s *Store) UpdateReservationSchedule(ctx context.Context, id uint64, r model.DateRange, guestCount uint32, totalCents int64) error {
    return s.Reservations.UpdateSchedule(ctx, id, r, guestCount, totalCents)
}

func (s *Store) CreateCancellation(ctx context.Context, rec *model.CancellationRecord) error {
    return s.Reservations.CreateCancellation(ctx, rec)
}

func (s *Store) InsertEvent(ctx context.Context, ev model.BookingEvent) error {
    return s.Events.Insert(ctx, ev)
}
