package database

import (
    "context"
    "database/sql"
    _ "embed"
    "fmt"
    "strings"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the embedded schema.  Statements use IF NOT EXISTS so
// applying on every startup is safe; enable it with DB_AUTO_MIGRATE.
func Migrate(ctx context.Context, db *sql.DB) error {
    for _, stmt := range strings.Split(schemaSQL, ";") {
        stmt = strings.TrimSpace(stmt)
        if stmt == "" {
            continue
        }
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("apply schema statement: %w", err)
        }
    }
    return nil
}
