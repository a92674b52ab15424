package booking

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

func TestPriceBaseRate(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    svc := NewPricingService(store)

    total, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(10, 13))
    require.NoError(t, err)
    assert.Equal(t, int64(3*50_000), total)
}

func TestPriceAppliesOverrides(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    // High-season surcharge on the middle two nights.
    store.overrideDate(1, rng(11, 13), 80_000)
    svc := NewPricingService(store)

    total, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(10, 14))
    require.NoError(t, err)
    assert.Equal(t, int64(50_000+80_000+80_000+50_000), total)
}

func TestPriceOverrideOutsideRangeIgnored(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.overrideDate(1, rng(20, 21), 99_000)
    svc := NewPricingService(store)

    total, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(10, 12))
    require.NoError(t, err)
    assert.Equal(t, int64(2*50_000), total)
}

func TestPriceIsAdditiveOverSplit(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    store.overrideDate(1, rng(12, 13), 75_000)
    svc := NewPricingService(store)

    whole, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(10, 16))
    require.NoError(t, err)
    left, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(10, 13))
    require.NoError(t, err)
    right, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(13, 16))
    require.NoError(t, err)

    assert.Equal(t, whole, left+right, "splitting a range must not change the total")
}

func TestPriceRejectsInvalidRange(t *testing.T) {
    store := newMemStore()
    store.addItem(testVessel())
    svc := NewPricingService(store)

    _, err := svc.Price(context.Background(), model.ItemKindVessel, 1, rng(14, 10))
    require.Error(t, err)
    code, ok := CodeOf(err)
    require.True(t, ok)
    assert.Equal(t, CodeInvalidRange, code)
}
