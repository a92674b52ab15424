package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/go-sql-driver/mysql"
)

// Pool bounds the connection pool.  Zero values fall back to defaults
// sized for a booking API: writes are short transactions holding an item
// row lock, so a modest pool beats queueing on MySQL's side.
type Pool struct {
    MaxOpenConns    int
    MaxIdleConns    int
    ConnMaxLifetime time.Duration
    PingTimeout     time.Duration
}

func (p Pool) withDefaults() Pool {
    if p.MaxOpenConns <= 0 {
        p.MaxOpenConns = 25
    }
    if p.MaxIdleConns <= 0 {
        p.MaxIdleConns = p.MaxOpenConns
    }
    if p.ConnMaxLifetime <= 0 {
        p.ConnMaxLifetime = 30 * time.Minute
    }
    if p.PingTimeout <= 0 {
        p.PingTimeout = 5 * time.Second
    }
    return p
}

// Open connects to MySQL, applies the pool bounds and verifies the
// connection.  The DSN is built through the driver's own config so
// credentials with reserved characters survive.  parseTime maps DATE and
// DATETIME columns to time.Time; the UTC location keeps every scanned
// date on the same calendar the engine computes with.
func Open(user, pass, host, port, name string, pool Pool) (*sql.DB, error) {
    cfg := mysql.NewConfig()
    cfg.User = user
    cfg.Passwd = pass
    cfg.Net = "tcp"
    cfg.Addr = fmt.Sprintf("%s:%s", host, port)
    cfg.DBName = name
    cfg.ParseTime = true
    cfg.Loc = time.UTC
    cfg.Params = map[string]string{"charset": "utf8mb4"}

    connector, err := mysql.NewConnector(cfg)
    if err != nil {
        return nil, fmt.Errorf("build mysql connector: %w", err)
    }
    db := sql.OpenDB(connector)

    pool = pool.withDefaults()
    db.SetMaxOpenConns(pool.MaxOpenConns)
    db.SetMaxIdleConns(pool.MaxIdleConns)
    db.SetConnMaxLifetime(pool.ConnMaxLifetime)

    ctx, cancel := context.WithTimeout(context.Background(), pool.PingTimeout)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        db.Close()
        return nil, fmt.Errorf("ping database: %w", err)
    }
    return db, nil
}
