package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// CalendarRepo reads per-date availability and price overrides.  Entries
// are written by external admin tooling; the engine only reads them.  The
// calendar is sparse: dates without an entry are available at base price.
type CalendarRepo struct {
    db *sql.DB
}

// NewCalendarRepo returns a CalendarRepo bound to the given database.
func NewCalendarRepo(db *sql.DB) *CalendarRepo { return &CalendarRepo{db: db} }

// EntriesInRange returns all entries for the item whose date falls in
// [r.Start, r.End), ordered by date ascending.  The ordering is what lets
// the checker report the earliest blocking date deterministically.
func (r *CalendarRepo) EntriesInRange(ctx context.Context, itemID uint64, rng model.DateRange) ([]model.CalendarEntry, error) {
    const q = `SELECT id, item_id, entry_date, available, price_override_cents
               FROM calendar_entries
               WHERE item_id = ? AND entry_date >= ? AND entry_date < ?
               ORDER BY entry_date`
    rows, err := runner(ctx, r.db).QueryContext(ctx, q,
        itemID, rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))
    if err != nil {
        return nil, fmt.Errorf("query calendar entries: %w", err)
    }
    defer rows.Close()

    var entries []model.CalendarEntry
    for rows.Next() {
        var e model.CalendarEntry
        var override sql.NullInt64
        if err := rows.Scan(&e.ID, &e.ItemID, &e.Date, &e.Available, &override); err != nil {
            return nil, fmt.Errorf("scan calendar entry: %w", err)
        }
        if override.Valid {
            v := override.Int64
            e.PriceOverrideCents = &v
        }
        e.Date = model.DateOnly(e.Date)
        entries = append(entries, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return entries, nil
}
