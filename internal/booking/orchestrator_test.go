package booking

import (
    "context"
    "errors"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

func newOrchestrator(store *memStore, pub *memPublisher) *BookingService {
    checker := NewAvailabilityService(store, NewFixedClock(testNow), DefaultPolicy())
    var publisher EventPublisher
    if pub != nil {
        publisher = pub
    }
    return NewBookingService(store, checker, NewFixedClock(testNow), DefaultPolicy(), publisher)
}

func createInput() CreateInput {
    uid := uint64(7)
    return CreateInput{
        Kind:       model.ItemKindVessel,
        ItemID:     1,
        Range:      rng(10, 14),
        GuestCount: 4,
        UserID:     &uid,
    }
}

func TestCreateBooksPendingReservation(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    pub := &memPublisher{}
    svc := newOrchestrator(store, pub)

    res, err := svc.Create(context.Background(), createInput())
    require.NoError(t, err)

    assert.NotZero(t, res.ID)
    assert.Equal(t, model.StatusPending, res.Status)
    assert.Equal(t, int64(4*50_000), res.TotalCents)
    assert.True(t, strings.HasPrefix(res.Reference, "NL-"))
    assert.Len(t, res.Reference, len("NL-")+8)

    assert.Contains(t, store.eventTypes(), model.EventBookingCreated)
    assert.Contains(t, pub.types(), model.EventBookingCreated)

    // The broker copy is the committed ledger event, not a reissue.
    require.Len(t, store.events, 1)
    require.Len(t, pub.events, 1)
    assert.Equal(t, store.events[0].ID, pub.events[0].ID)
}

func TestCreateGuestBookingNeedsEmail(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    svc := newOrchestrator(store, nil)

    in := createInput()
    in.UserID = nil
    _, err := svc.Create(context.Background(), in)
    require.Error(t, err)
    code, coded := CodeOf(err)
    require.True(t, coded)
    assert.Equal(t, CodeInvalidRange, code)
    assert.Contains(t, err.Error(), "contact email")

    in.ContactName = "Mona Hassan"
    in.ContactEmail = "mona@example.com"
    res, err := svc.Create(context.Background(), in)
    require.NoError(t, err)
    assert.Nil(t, res.UserID)
    assert.Equal(t, "mona@example.com", res.ContactEmail)
}

func TestCreateRosterMustMatchGuestCount(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    svc := newOrchestrator(store, nil)

    in := createInput()
    in.Roster = []model.Guest{{FullName: "Amr"}, {FullName: "Laila"}}
    _, err := svc.Create(context.Background(), in)
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeGuestCountMismatch, code)

    in.GuestCount = 2
    res, err := svc.Create(context.Background(), in)
    require.NoError(t, err)
    require.Len(t, res.Guests, 2)
    assert.Equal(t, res.ID, res.Guests[0].ReservationID)
}

func TestCreateConflictRollsBackEverything(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.addReservation(model.Reservation{
        ItemID: 1, ItemKind: model.ItemKindVessel,
        StartDate: day(12), EndDate: day(16),
        GuestCount: 2, Status: model.StatusConfirmed,
    })
    svc := newOrchestrator(store, nil)

    _, err := svc.Create(context.Background(), createInput())
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeDateConflict, code)

    assert.Len(t, store.reservations, 1, "failed booking must leave no row behind")
    assert.Empty(t, store.eventTypes(), "failed booking must emit no event")
}

func TestCreateConcurrentOverlapsAdmitExactlyOne(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    svc := newOrchestrator(store, nil)

    const workers = 8
    var wg sync.WaitGroup
    errs := make([]error, workers)
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = svc.Create(context.Background(), createInput())
        }(i)
    }
    wg.Wait()

    var wins, conflicts int
    for _, err := range errs {
        if err == nil {
            wins++
            continue
        }
        code, coded := CodeOf(err)
        require.True(t, coded, "unexpected error: %v", err)
        assert.Equal(t, CodeDateConflict, code)
        conflicts++
    }
    assert.Equal(t, 1, wins, "exactly one overlapping booking may commit")
    assert.Equal(t, workers-1, conflicts)
    assert.Len(t, store.reservations, 1)
}

func TestCreateRetriesReferenceCollision(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.dupRefs = 2
    svc := newOrchestrator(store, nil)

    res, err := svc.Create(context.Background(), createInput())
    require.NoError(t, err)
    assert.NotEmpty(t, res.Reference)
}

func TestCreateGivesUpAfterTooManyCollisions(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    // Enough collisions to exhaust the per-transaction attempts on every
    // storage retry as well.
    store.dupRefs = maxReferenceAttempts * DefaultPolicy().StorageRetries
    svc := newOrchestrator(store, nil)

    _, err := svc.Create(context.Background(), createInput())
    require.Error(t, err)
    assert.Contains(t, err.Error(), string(CodeStorageFailure))
    assert.Empty(t, store.reservations)
}

func TestCreateRetriesTransientStorageFailures(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.createFails = 2
    store.createErr = errors.New("connection reset")
    svc := newOrchestrator(store, nil)

    res, err := svc.Create(context.Background(), createInput())
    require.NoError(t, err, "two transient failures fit inside three attempts")
    assert.NotZero(t, res.ID)
    assert.Len(t, store.reservations, 1)
}

func TestCreateSurfacesPersistentStorageFailure(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.createFails = 10
    store.createErr = errors.New("connection reset")
    svc := newOrchestrator(store, nil)

    start := time.Now()
    _, err := svc.Create(context.Background(), createInput())
    require.Error(t, err)
    assert.Contains(t, err.Error(), string(CodeStorageFailure))
    assert.Empty(t, store.reservations)
    assert.Less(t, time.Since(start), 5*time.Second, "retries must stay bounded")
}

func TestCreateConflictIsNotRetried(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.blockDate(1, rng(11, 12))
    svc := newOrchestrator(store, nil)

    start := time.Now()
    _, err := svc.Create(context.Background(), createInput())
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeDateBlocked, code)
    assert.Less(t, time.Since(start), time.Second, "coded outcomes must fail fast, not retry")
}
