package booking

import "time"

// Clock supplies "now" to the engine.  Days-until-start and past-date
// validation go through it, never through ambient time, so behavior is
// deterministic under test.
type Clock interface {
    Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a clock backed by time.Now in UTC.
func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

type fixedClock struct{ now time.Time }

// NewFixedClock returns a clock pinned to the given instant, for tests.
func NewFixedClock(t time.Time) Clock { return fixedClock{now: t.UTC()} }

func (f fixedClock) Now() time.Time { return f.now }
