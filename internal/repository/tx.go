package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"
)

// The transaction travels in the context so every repository method works
// identically inside and outside a transaction: methods route through the
// tx when one is present and fall back to the pool otherwise.  Callers
// never pass *sql.Tx around.

type txKey struct{}

// withTx begins a transaction, runs fn with the transaction in the
// context, and commits unless fn errors.  Nested calls reuse the
// in-flight transaction.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
    if txFromContext(ctx) != nil {
        return fn(ctx)
    }
    tx, err := db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
    tx, _ := ctx.Value(txKey{}).(*sql.Tx)
    return tx
}

// execer narrows *sql.DB / *sql.Tx to what the repositories use.
type execer interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func runner(ctx context.Context, db *sql.DB) execer {
    if tx := txFromContext(ctx); tx != nil {
        return tx
    }
    return db
}

// isDuplicateEntry reports a MySQL unique-key violation (error 1062).
func isDuplicateEntry(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}
