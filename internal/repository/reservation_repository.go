package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// ReservationRepo is the reservation ledger: the source of truth for
// conflict detection plus all writes to reservations, their guest
// rosters and cancellation records.  Timestamps are stored in UTC; dates
// are DATE columns compared with the half-open convention.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, reference, item_id, item_kind, user_id, contact_name, contact_email,
       start_date, end_date, guest_count, status, total_cents, special_requests, created_at, updated_at`

// FindOverlapping returns reservations on the item whose [start, end)
// range intersects rng and whose status is in statuses, excluding
// excludeID when non-zero.  The predicate start_date < ?end AND
// end_date > ?start is the ledger's single overlap rule: a booking
// ending on a date never conflicts with one starting that date.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, itemID uint64, rng model.DateRange, statuses []model.ReservationStatus, excludeID uint64) ([]model.Reservation, error) {
    if len(statuses) == 0 {
        return nil, nil
    }
    placeholders := make([]string, len(statuses))
    args := []any{itemID}
    for i, st := range statuses {
        placeholders[i] = "?"
        args = append(args, string(st))
    }
    q := `SELECT ` + reservationColumns + `
          FROM reservations
          WHERE item_id = ? AND status IN (` + strings.Join(placeholders, ",") + `)
            AND start_date < ? AND end_date > ?`
    args = append(args, rng.End.Format("2006-01-02"), rng.Start.Format("2006-01-02"))
    if excludeID != 0 {
        q += ` AND id <> ?`
        args = append(args, excludeID)
    }
    q += ` ORDER BY start_date`

    rows, err := runner(ctx, r.db).QueryContext(ctx, q, args...)
    if err != nil {
        return nil, fmt.Errorf("query overlapping reservations: %w", err)
    }
    defer rows.Close()

    var out []model.Reservation
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a new reservation and populates the generated id and
// timestamps on res.  A reference collision surfaces as
// ErrDuplicateReference so the orchestrator can regenerate and retry.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations
               (reference, item_id, item_kind, user_id, contact_name, contact_email,
                start_date, end_date, guest_count, status, total_cents, special_requests)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    var userID any
    if res.UserID != nil {
        userID = *res.UserID
    }
    result, err := runner(ctx, r.db).ExecContext(ctx, q,
        res.Reference, res.ItemID, string(res.ItemKind), userID, res.ContactName, res.ContactEmail,
        res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"),
        res.GuestCount, string(res.Status), res.TotalCents, res.SpecialRequests,
    )
    if err != nil {
        if isDuplicateEntry(err) {
            return ErrDuplicateReference
        }
        return fmt.Errorf("insert reservation: %w", err)
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back to pick up database-assigned timestamps.
    q2 := `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    if err := runner(ctx, r.db).QueryRowContext(ctx, q2, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
        return fmt.Errorf("read back reservation: %w", err)
    }
    return nil
}

// CreateGuests bulk-inserts the roster rows in one statement.  An empty
// slice is a no-op.
func (r *ReservationRepo) CreateGuests(ctx context.Context, guests []model.Guest) error {
    if len(guests) == 0 {
        return nil
    }
    q := `INSERT INTO reservation_guests (reservation_id, full_name, nationality, document_id, dietary_notes) VALUES `
    args := make([]any, 0, len(guests)*5)
    for i, g := range guests {
        if i > 0 {
            q += ","
        }
        q += "(?, ?, ?, ?, ?)"
        args = append(args, g.ReservationID, g.FullName, g.Nationality, g.DocumentID, g.DietaryNotes)
    }
    if _, err := runner(ctx, r.db).ExecContext(ctx, q, args...); err != nil {
        return fmt.Errorf("insert guests: %w", err)
    }
    return nil
}

// GetByID returns the reservation with its guest roster loaded.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := r.getOne(ctx, q, id)
    if err != nil {
        return model.Reservation{}, err
    }
    guests, err := r.guestsFor(ctx, res.ID)
    if err != nil {
        return model.Reservation{}, err
    }
    res.Guests = guests
    return res, nil
}

// GetByReference returns the reservation carrying the given booking
// reference, roster included.
func (r *ReservationRepo) GetByReference(ctx context.Context, reference string) (model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE reference = ?`
    res, err := r.getOne(ctx, q, reference)
    if err != nil {
        return model.Reservation{}, err
    }
    guests, err := r.guestsFor(ctx, res.ID)
    if err != nil {
        return model.Reservation{}, err
    }
    res.Guests = guests
    return res, nil
}

// LockByID reads the reservation row FOR UPDATE so concurrent lifecycle
// transitions serialize.  Requires an in-flight transaction; outside one
// it degrades to a plain read.
func (r *ReservationRepo) LockByID(ctx context.Context, id uint64) (model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    if txFromContext(ctx) != nil {
        q += ` FOR UPDATE`
    }
    return r.getOne(ctx, q, id)
}

// ListByUser returns all reservations created under the given account,
// newest first.  Rosters are not loaded; list views do not need them.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`
    rows, err := runner(ctx, r.db).QueryContext(ctx, q, userID)
    if err != nil {
        return nil, fmt.Errorf("query reservations by user: %w", err)
    }
    defer rows.Close()

    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateStatus sets the reservation's lifecycle status.  Callers lock
// the row first, so existence is already established.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
    const q = `UPDATE reservations SET status = ? WHERE id = ?`
    if _, err := runner(ctx, r.db).ExecContext(ctx, q, string(status), id); err != nil {
        return fmt.Errorf("update reservation status: %w", err)
    }
    return nil
}

// UpdateSchedule atomically rewrites range, guest count and price after a
// successful modification re-check.
func (r *ReservationRepo) UpdateSchedule(ctx context.Context, id uint64, rng model.DateRange, guestCount uint32, totalCents int64) error {
    const q = `UPDATE reservations SET start_date = ?, end_date = ?, guest_count = ?, total_cents = ? WHERE id = ?`
    if _, err := runner(ctx, r.db).ExecContext(ctx, q,
        rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"), guestCount, totalCents, id); err != nil {
        return fmt.Errorf("update reservation schedule: %w", err)
    }
    return nil
}

// CreateCancellation writes the 1:1 cancellation record.  The unique key
// on reservation_id makes a double write impossible.
func (r *ReservationRepo) CreateCancellation(ctx context.Context, rec *model.CancellationRecord) error {
    const q = `INSERT INTO cancellation_records (reservation_id, reason, fee_cents, refund_cents, actor, cancelled_at)
               VALUES (?, ?, ?, ?, ?, ?)`
    result, err := runner(ctx, r.db).ExecContext(ctx, q,
        rec.ReservationID, rec.Reason, rec.FeeCents, rec.RefundCents, rec.Actor,
        rec.CancelledAt.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return fmt.Errorf("insert cancellation record: %w", err)
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// GetCancellation loads the cancellation record for a reservation, or
// sql.ErrNoRows when none exists.
func (r *ReservationRepo) GetCancellation(ctx context.Context, reservationID uint64) (model.CancellationRecord, error) {
    const q = `SELECT id, reservation_id, reason, fee_cents, refund_cents, actor, cancelled_at
               FROM cancellation_records WHERE reservation_id = ?`
    var rec model.CancellationRecord
    err := runner(ctx, r.db).QueryRowContext(ctx, q, reservationID).Scan(
        &rec.ID, &rec.ReservationID, &rec.Reason, &rec.FeeCents, &rec.RefundCents, &rec.Actor, &rec.CancelledAt)
    if err != nil {
        return model.CancellationRecord{}, err
    }
    return rec, nil
}

func (r *ReservationRepo) getOne(ctx context.Context, q string, arg any) (model.Reservation, error) {
    res, err := scanReservation(runner(ctx, r.db).QueryRowContext(ctx, q, arg))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Reservation{}, ErrReservationNotFound
        }
        return model.Reservation{}, err
    }
    return res, nil
}

func (r *ReservationRepo) guestsFor(ctx context.Context, reservationID uint64) ([]model.Guest, error) {
    const q = `SELECT id, reservation_id, full_name, nationality, document_id, dietary_notes
               FROM reservation_guests WHERE reservation_id = ? ORDER BY id`
    rows, err := runner(ctx, r.db).QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, fmt.Errorf("query guests: %w", err)
    }
    defer rows.Close()

    var guests []model.Guest
    for rows.Next() {
        var g model.Guest
        if err := rows.Scan(&g.ID, &g.ReservationID, &g.FullName, &g.Nationality, &g.DocumentID, &g.DietaryNotes); err != nil {
            return nil, fmt.Errorf("scan guest: %w", err)
        }
        guests = append(guests, g)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return guests, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
    var res model.Reservation
    var kind, status string
    var userID sql.NullInt64
    err := row.Scan(
        &res.ID, &res.Reference, &res.ItemID, &kind, &userID, &res.ContactName, &res.ContactEmail,
        &res.StartDate, &res.EndDate, &res.GuestCount, &status, &res.TotalCents,
        &res.SpecialRequests, &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return model.Reservation{}, err
    }
    res.ItemKind = model.ItemKind(kind)
    res.Status = model.ReservationStatus(status)
    if userID.Valid {
        uid := uint64(userID.Int64)
        res.UserID = &uid
    }
    res.StartDate = model.DateOnly(res.StartDate)
    res.EndDate = model.DateOnly(res.EndDate)
    return res, nil
}
