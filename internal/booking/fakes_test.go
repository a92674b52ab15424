package booking

import (
    "context"
    "sort"
    "sync"

    "github.com/amryassin/nile-cruise-booking/internal/model"
    "github.com/amryassin/nile-cruise-booking/internal/repository"
)

// memStore is an in-memory LifecycleStore.  WithTx serializes callers
// behind one mutex and restores a snapshot on error, which models what
// the real store gets from the item row lock plus rollback.
type memStore struct {
    mu sync.Mutex

    items        map[uint64]model.Item
    calendar     []model.CalendarEntry
    reservations map[uint64]model.Reservation
    guests       []model.Guest
    cancels      map[uint64]model.CancellationRecord
    events       []model.BookingEvent
    nextID       uint64

    inTx bool

    // fault injection
    dupRefs     int   // next n CreateReservation calls fail with ErrDuplicateReference
    createFails int   // next n CreateReservation calls fail with createErr
    createErr   error // error returned while createFails > 0
}

func newMemStore() *memStore {
    return &memStore{
        items:        make(map[uint64]model.Item),
        reservations: make(map[uint64]model.Reservation),
        cancels:      make(map[uint64]model.CancellationRecord),
        nextID:       1,
    }
}

func (m *memStore) addItem(it model.Item) {
    m.items[it.ID] = it
}

func (m *memStore) addReservation(res model.Reservation) model.Reservation {
    if res.ID == 0 {
        res.ID = m.nextID
        m.nextID++
    } else if res.ID >= m.nextID {
        m.nextID = res.ID + 1
    }
    if res.Reference == "" {
        res.Reference, _ = newReference()
    }
    m.reservations[res.ID] = res
    return res
}

func (m *memStore) blockDate(itemID uint64, d model.DateRange) {
    for day := d.Start; day.Before(d.End); day = day.AddDate(0, 0, 1) {
        m.calendar = append(m.calendar, model.CalendarEntry{
            ItemID: itemID, Date: day, Available: false,
        })
    }
}

func (m *memStore) overrideDate(itemID uint64, day model.DateRange, cents int64) {
    for d := day.Start; d.Before(day.End); d = d.AddDate(0, 0, 1) {
        price := cents
        m.calendar = append(m.calendar, model.CalendarEntry{
            ItemID: itemID, Date: d, Available: true, PriceOverrideCents: &price,
        })
    }
}

func (m *memStore) lock() func() {
    if m.inTx {
        return func() {}
    }
    m.mu.Lock()
    return m.mu.Unlock
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.inTx = true
    defer func() { m.inTx = false }()

    snap := m.snapshot()
    if err := fn(ctx); err != nil {
        m.restore(snap)
        return err
    }
    return nil
}

type memSnapshot struct {
    reservations map[uint64]model.Reservation
    guests       []model.Guest
    cancels      map[uint64]model.CancellationRecord
    events       []model.BookingEvent
    nextID       uint64
}

func (m *memStore) snapshot() memSnapshot {
    s := memSnapshot{
        reservations: make(map[uint64]model.Reservation, len(m.reservations)),
        cancels:      make(map[uint64]model.CancellationRecord, len(m.cancels)),
        guests:       append([]model.Guest(nil), m.guests...),
        events:       append([]model.BookingEvent(nil), m.events...),
        nextID:       m.nextID,
    }
    for k, v := range m.reservations {
        s.reservations[k] = v
    }
    for k, v := range m.cancels {
        s.cancels[k] = v
    }
    return s
}

func (m *memStore) restore(s memSnapshot) {
    m.reservations = s.reservations
    m.guests = s.guests
    m.cancels = s.cancels
    m.events = s.events
    m.nextID = s.nextID
}

func (m *memStore) GetItem(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error) {
    defer m.lock()()
    it, ok := m.items[id]
    if !ok || it.Kind != kind {
        return model.Item{}, repository.ErrItemNotFound
    }
    return it, nil
}

func (m *memStore) LockItem(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error) {
    return m.GetItem(ctx, kind, id)
}

func (m *memStore) CalendarEntries(ctx context.Context, itemID uint64, r model.DateRange) ([]model.CalendarEntry, error) {
    defer m.lock()()
    var out []model.CalendarEntry
    for _, e := range m.calendar {
        if e.ItemID == itemID && r.Contains(e.Date) {
            out = append(out, e)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
    return out, nil
}

func (m *memStore) FindOverlapping(ctx context.Context, itemID uint64, r model.DateRange, statuses []model.ReservationStatus, excludeID uint64) ([]model.Reservation, error) {
    defer m.lock()()
    var out []model.Reservation
    for _, res := range m.reservations {
        if res.ItemID != itemID || res.ID == excludeID {
            continue
        }
        if !res.Range().Overlaps(r) {
            continue
        }
        for _, st := range statuses {
            if res.Status == st {
                out = append(out, res)
                break
            }
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
    return out, nil
}

func (m *memStore) CreateReservation(ctx context.Context, res *model.Reservation) error {
    defer m.lock()()
    if m.dupRefs > 0 {
        m.dupRefs--
        return repository.ErrDuplicateReference
    }
    if m.createFails > 0 {
        m.createFails--
        return m.createErr
    }
    for _, existing := range m.reservations {
        if existing.Reference == res.Reference {
            return repository.ErrDuplicateReference
        }
    }
    res.ID = m.nextID
    m.nextID++
    m.reservations[res.ID] = *res
    return nil
}

func (m *memStore) CreateGuests(ctx context.Context, guests []model.Guest) error {
    defer m.lock()()
    m.guests = append(m.guests, guests...)
    return nil
}

func (m *memStore) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
    defer m.lock()()
    res, ok := m.reservations[id]
    if !ok {
        return model.Reservation{}, repository.ErrReservationNotFound
    }
    return res, nil
}

func (m *memStore) LockReservation(ctx context.Context, id uint64) (model.Reservation, error) {
    return m.GetReservation(ctx, id)
}

func (m *memStore) UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
    defer m.lock()()
    res := m.reservations[id]
    res.Status = status
    m.reservations[id] = res
    return nil
}

func (m *memStore) UpdateReservationSchedule(ctx context.Context, id uint64, r model.DateRange, guestCount uint32, totalCents int64) error {
    defer m.lock()()
    res := m.reservations[id]
    res.StartDate = r.Start
    res.EndDate = r.End
    res.GuestCount = guestCount
    res.TotalCents = totalCents
    m.reservations[id] = res
    return nil
}

func (m *memStore) CreateCancellation(ctx context.Context, rec *model.CancellationRecord) error {
    defer m.lock()()
    rec.ID = m.nextID
    m.nextID++
    m.cancels[rec.ReservationID] = *rec
    return nil
}

func (m *memStore) InsertEvent(ctx context.Context, ev model.BookingEvent) error {
    defer m.lock()()
    for _, existing := range m.events {
        if existing.ID == ev.ID {
            return nil
        }
    }
    m.events = append(m.events, ev)
    return nil
}

func (m *memStore) eventTypes() []string {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := make([]string, 0, len(m.events))
    for _, ev := range m.events {
        out = append(out, ev.EventType)
    }
    return out
}

// memPublisher records everything handed to the broker.
type memPublisher struct {
    mu     sync.Mutex
    events []model.BookingEvent
}

func (p *memPublisher) PublishBookingEvent(ctx context.Context, ev model.BookingEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.events = append(p.events, ev)
    return nil
}

func (p *memPublisher) types() []string {
    p.mu.Lock()
    defer p.mu.Unlock()
    out := make([]string, 0, len(p.events))
    for _, ev := range p.events {
        out = append(out, ev.EventType)
    }
    return out
}
