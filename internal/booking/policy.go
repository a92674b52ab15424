package booking

import "time"

// Policy bundles the tunable knobs of the engine.  Defaults match the
// documented policy; deployments override them through configuration.
type Policy struct {
    AllowPastDates   bool          // accept ranges starting before today
    SearchWindowDays int           // alternative-finder scan radius
    MaxAlternatives  int           // alternative-finder result cap
    OperationTimeout time.Duration // per-operation bound for create/modify/cancel
    StorageRetries   int           // attempts for STORAGE_FAILURE retries
    RetryBackoff     time.Duration // initial backoff between storage retries
}

// DefaultPolicy returns the stock policy values.
func DefaultPolicy() Policy {
    return Policy{
        AllowPastDates:   false,
        SearchWindowDays: 60,
        MaxAlternatives:  5,
        OperationTimeout: 10 * time.Second,
        StorageRetries:   3,
        RetryBackoff:     100 * time.Millisecond,
    }
}

// FeeTier is one row of the tiered cancellation policy: cancellations at
// least MinDays before the start date are charged RateBasisPoints of the
// total price.  Tiers are evaluated most-lenient first.
type FeeTier struct {
    MinDays         int
    RateBasisPoints int64
}

// DefaultFeeTiers is the stock cancellation policy: more than 30 days out
// costs 10%, 15-30 days 30%, 7-14 days 50%, under 7 days the full price.
var DefaultFeeTiers = []FeeTier{
    {MinDays: 31, RateBasisPoints: 1000},
    {MinDays: 15, RateBasisPoints: 3000},
    {MinDays: 7, RateBasisPoints: 5000},
    {MinDays: 0, RateBasisPoints: 10000},
}

// feeFor returns the fee in cents for the given total and lead time.
// Negative lead times (start date already passed) fall into the strictest
// tier.  Integer basis-point math keeps the result exact.
func feeFor(tiers []FeeTier, totalCents int64, daysUntilStart int) int64 {
    for _, t := range tiers {
        if daysUntilStart >= t.MinDays {
            return totalCents * t.RateBasisPoints / 10000
        }
    }
    return totalCents
}
