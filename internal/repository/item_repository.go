package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// ItemRepo reads the bookable catalog.  Items are created and edited by
// external catalog tooling; the engine never writes them, it only reads
// and, during a booking transaction, locks them.
type ItemRepo struct {
    db *sql.DB
}

// NewItemRepo returns an ItemRepo bound to the given database.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `id, kind, name, capacity, base_price_cents, active, created_at, updated_at`

// GetByID loads an item by kind and id.  A row of a different kind is
// treated as not found, so a vessel id cannot be booked as a package.
func (r *ItemRepo) GetByID(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error) {
    q := `SELECT ` + itemColumns + ` FROM items WHERE id = ? AND kind = ?`
    return r.scanOne(runner(ctx, r.db).QueryRowContext(ctx, q, id, string(kind)))
}

// LockByID loads the item row FOR UPDATE.  The row lock is the per-item
// mutual exclusion for concurrent bookings; it requires an in-flight
// transaction in the context, otherwise it degrades to a plain read.
func (r *ItemRepo) LockByID(ctx context.Context, kind model.ItemKind, id uint64) (model.Item, error) {
    q := `SELECT ` + itemColumns + ` FROM items WHERE id = ? AND kind = ?`
    if txFromContext(ctx) != nil {
        q += ` FOR UPDATE`
    }
    return r.scanOne(runner(ctx, r.db).QueryRowContext(ctx, q, id, string(kind)))
}

func (r *ItemRepo) scanOne(row *sql.Row) (model.Item, error) {
    var it model.Item
    var kind string
    err := row.Scan(&it.ID, &kind, &it.Name, &it.Capacity, &it.BasePriceCents, &it.Active, &it.CreatedAt, &it.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Item{}, ErrItemNotFound
        }
        return model.Item{}, fmt.Errorf("scan item: %w", err)
    }
    it.Kind = model.ItemKind(kind)
    return it, nil
}
