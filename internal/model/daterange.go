package model

import "time"

// DateOnly truncates t to midnight UTC.  Every date the engine compares or
// stores goes through this first so that calendar math never depends on
// wall-clock components or the server's local zone.
func DateOnly(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open range of calendar dates [Start, End): the
// checkout day is not occupied, so a range ending on a given day may abut
// another range starting that same day without overlapping.
type DateRange struct {
    Start time.Time
    End   time.Time
}

// NewDateRange normalizes both bounds to UTC midnight.
func NewDateRange(start, end time.Time) DateRange {
    return DateRange{Start: DateOnly(start), End: DateOnly(end)}
}

// Valid reports whether the range contains at least one night.
func (r DateRange) Valid() bool { return r.Start.Before(r.End) }

// Nights returns the number of occupied nights in the range.
func (r DateRange) Nights() int {
    return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

// Overlaps reports whether the two half-open ranges share at least one
// night: a1 < b2 && b1 < a2.  This predicate is the single overlap
// convention for the whole engine; the ledger SQL encodes the same
// comparison.
func (r DateRange) Overlaps(o DateRange) bool {
    return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether the given date (normalized) falls on one of the
// range's occupied nights.
func (r DateRange) Contains(d time.Time) bool {
    d = DateOnly(d)
    return !d.Before(r.Start) && d.Before(r.End)
}

// Shift returns the range moved by the given number of days, keeping the
// same duration.
func (r DateRange) Shift(days int) DateRange {
    return DateRange{
        Start: r.Start.AddDate(0, 0, days),
        End:   r.End.AddDate(0, 0, days),
    }
}
