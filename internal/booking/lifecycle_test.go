package booking

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

func newLifecycle(store *memStore, pub *memPublisher) *LifecycleService {
    checker := NewAvailabilityService(store, NewFixedClock(testNow), DefaultPolicy())
    var publisher EventPublisher
    if pub != nil {
        publisher = pub
    }
    return NewLifecycleService(store, checker, NewFixedClock(testNow), DefaultPolicy(), nil, publisher)
}

func seedReservation(store *memStore, status model.ReservationStatus) model.Reservation {
    store.addItem(testVessel())
    return store.addReservation(model.Reservation{
        ItemID: 1, ItemKind: model.ItemKindVessel,
        StartDate: day(11), EndDate: day(15),
        GuestCount: 4, Status: status, TotalCents: 100_000,
    })
}

func TestTransitionMatrix(t *testing.T) {
    cases := []struct {
        from model.ReservationStatus
        to   model.ReservationStatus
        ok   bool
    }{
        {model.StatusPending, model.StatusConfirmed, true},
        {model.StatusConfirmed, model.StatusCompleted, true},
        {model.StatusCancelled, model.StatusRefunded, true},
        {model.StatusPending, model.StatusCompleted, false},
        {model.StatusPending, model.StatusRefunded, false},
        {model.StatusConfirmed, model.StatusPending, false},
        {model.StatusConfirmed, model.StatusRefunded, false},
        {model.StatusCompleted, model.StatusConfirmed, false},
        {model.StatusCompleted, model.StatusRefunded, false},
        {model.StatusRefunded, model.StatusConfirmed, false},
    }
    for _, tc := range cases {
        t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
            store := newMemStore()
            res := seedReservation(store, tc.from)
            svc := newLifecycle(store, nil)

            got, err := svc.Transition(context.Background(), res.ID, tc.to)
            if tc.ok {
                require.NoError(t, err)
                assert.Equal(t, tc.to, got.Status)
            } else {
                require.Error(t, err)
                code, coded := CodeOf(err)
                require.True(t, coded)
                assert.Equal(t, CodeInvalidTransition, code)
            }
        })
    }
}

func TestTransitionToCancelledIsRejected(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusPending)
    svc := newLifecycle(store, nil)

    _, err := svc.Transition(context.Background(), res.ID, model.StatusCancelled)
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeInvalidTransition, code)
}

func TestTransitionUnknownReservation(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    svc := newLifecycle(store, nil)

    _, err := svc.Transition(context.Background(), 404, model.StatusConfirmed)
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeNotFound, code)
}

func TestTransitionPublishesStoredEvent(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusPending)
    pub := &memPublisher{}
    svc := newLifecycle(store, pub)

    _, err := svc.Transition(context.Background(), res.ID, model.StatusConfirmed)
    require.NoError(t, err)

    require.Len(t, store.events, 1)
    require.Len(t, pub.events, 1)
    assert.Equal(t, model.EventBookingConfirmed, pub.events[0].EventType)
    assert.Equal(t, store.events[0].ID, pub.events[0].ID,
        "the published event must carry the ledger row's id")
}

func TestCancelChargesTieredFee(t *testing.T) {
    // testNow is June 1; the reservation starts June 11, 10 days out,
    // which lands in the 50% tier.
    store := newMemStore()
    res := seedReservation(store, model.StatusConfirmed)
    pub := &memPublisher{}
    svc := newLifecycle(store, pub)

    out, err := svc.Cancel(context.Background(), res.ID, "change of plans", "customer")
    require.NoError(t, err)

    assert.Equal(t, model.StatusCancelled, out.Reservation.Status)
    assert.Equal(t, int64(50_000), out.Record.FeeCents)
    assert.Equal(t, int64(50_000), out.Record.RefundCents)
    assert.Equal(t, "change of plans", out.Record.Reason)

    stored, err := store.GetReservation(context.Background(), res.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, stored.Status)
    assert.Contains(t, store.eventTypes(), model.EventBookingCancelled)
    assert.Contains(t, pub.types(), model.EventBookingCancelled)

    // One logical event, one id: broker copy matches the ledger row.
    require.Len(t, store.events, 1)
    require.Len(t, pub.events, 1)
    assert.Equal(t, store.events[0].ID, pub.events[0].ID)
}

func TestCancelFeeTiers(t *testing.T) {
    cases := []struct {
        name     string
        startDay int // relative to testNow in days
        wantFee  int64
    }{
        {"far out pays 10 percent", 40, 10_000},
        {"lower edge of 10 percent tier", 31, 10_000},
        {"30 days pays 30 percent", 30, 30_000},
        {"15 days pays 30 percent", 15, 30_000},
        {"14 days pays 50 percent", 14, 50_000},
        {"7 days pays 50 percent", 7, 50_000},
        {"6 days pays full price", 6, 100_000},
        {"same day pays full price", 0, 100_000},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            store := newMemStore()
            store.addItem(testVessel())
            start := model.DateOnly(testNow).AddDate(0, 0, tc.startDay)
            res := store.addReservation(model.Reservation{
                ItemID: 1, ItemKind: model.ItemKindVessel,
                StartDate: start, EndDate: start.AddDate(0, 0, 4),
                GuestCount: 4, Status: model.StatusConfirmed, TotalCents: 100_000,
            })
            svc := newLifecycle(store, nil)

            out, err := svc.Cancel(context.Background(), res.ID, "", "customer")
            require.NoError(t, err)
            assert.Equal(t, tc.wantFee, out.Record.FeeCents)
            assert.Equal(t, int64(100_000)-tc.wantFee, out.Record.RefundCents)
        })
    }
}

func TestFeeNeverDecreasesAsDepartureNears(t *testing.T) {
    prev := int64(-1)
    for days := 60; days >= 0; days-- {
        fee := feeFor(DefaultFeeTiers, 100_000, days)
        if fee < prev {
            t.Fatalf("fee dropped from %d to %d at %d days out", prev, fee, days)
        }
        prev = fee
    }
}

func TestCancelTerminalReservation(t *testing.T) {
    for _, st := range []model.ReservationStatus{model.StatusCancelled, model.StatusCompleted, model.StatusRefunded} {
        t.Run(string(st), func(t *testing.T) {
            store := newMemStore()
            res := seedReservation(store, st)
            svc := newLifecycle(store, nil)

            _, err := svc.Cancel(context.Background(), res.ID, "", "customer")
            require.Error(t, err)
            code, _ := CodeOf(err)
            assert.Equal(t, CodeAlreadyTerminal, code)
        })
    }
}

func TestCancelTwiceChargesOnce(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusConfirmed)
    svc := newLifecycle(store, nil)

    _, err := svc.Cancel(context.Background(), res.ID, "", "customer")
    require.NoError(t, err)
    _, err = svc.Cancel(context.Background(), res.ID, "", "customer")
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeAlreadyTerminal, code)
    assert.Len(t, store.cancels, 1)
}

func TestModifyMovesAndReprices(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusConfirmed)
    store.overrideDate(1, rng(20, 21), 90_000)
    pub := &memPublisher{}
    svc := newLifecycle(store, pub)

    got, err := svc.Modify(context.Background(), ModifyInput{
        ReservationID: res.ID, Range: rng(20, 24), GuestCount: 6,
    })
    require.NoError(t, err)
    assert.True(t, got.StartDate.Equal(day(20)))
    assert.True(t, got.EndDate.Equal(day(24)))
    assert.Equal(t, uint32(6), got.GuestCount)
    assert.Equal(t, int64(90_000+3*50_000), got.TotalCents)
    assert.Contains(t, store.eventTypes(), model.EventBookingModified)

    require.Len(t, store.events, 1)
    require.Len(t, pub.events, 1)
    assert.Equal(t, store.events[0].ID, pub.events[0].ID)
}

func TestModifyWithinOwnRangeSucceeds(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusConfirmed)
    svc := newLifecycle(store, nil)

    // Shrinking by one night overlaps the old range, which must not count
    // as a conflict with itself.
    got, err := svc.Modify(context.Background(), ModifyInput{
        ReservationID: res.ID, Range: rng(11, 14), GuestCount: 4,
    })
    require.NoError(t, err)
    assert.Equal(t, int64(3*50_000), got.TotalCents)
}

func TestModifyConflictLeavesReservationUntouched(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusConfirmed)
    store.addReservation(model.Reservation{
        ItemID: 1, ItemKind: model.ItemKindVessel,
        StartDate: day(20), EndDate: day(24),
        GuestCount: 2, Status: model.StatusPending,
    })
    svc := newLifecycle(store, nil)

    _, err := svc.Modify(context.Background(), ModifyInput{
        ReservationID: res.ID, Range: rng(22, 26), GuestCount: 4,
    })
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeDateConflict, code)

    unchanged, err := store.GetReservation(context.Background(), res.ID)
    require.NoError(t, err)
    assert.True(t, unchanged.StartDate.Equal(day(11)))
    assert.True(t, unchanged.EndDate.Equal(day(15)))
    assert.Equal(t, int64(100_000), unchanged.TotalCents)
}

func TestModifyTerminalReservation(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusCompleted)
    svc := newLifecycle(store, nil)

    _, err := svc.Modify(context.Background(), ModifyInput{
        ReservationID: res.ID, Range: rng(20, 24), GuestCount: 4,
    })
    require.Error(t, err)
    code, _ := CodeOf(err)
    assert.Equal(t, CodeAlreadyTerminal, code)
}

func TestRefundOnlyAfterCancel(t *testing.T) {
    store := newMemStore()
    res := seedReservation(store, model.StatusConfirmed)
    svc := newLifecycle(store, nil)

    _, err := svc.Transition(context.Background(), res.ID, model.StatusRefunded)
    require.Error(t, err)

    _, err = svc.Cancel(context.Background(), res.ID, "", "admin")
    require.NoError(t, err)

    got, err := svc.Transition(context.Background(), res.ID, model.StatusRefunded)
    require.NoError(t, err)
    assert.Equal(t, model.StatusRefunded, got.Status)
}
