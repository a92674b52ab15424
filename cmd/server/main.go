package main // Entry point package

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/amryassin/nile-cruise-booking/internal/booking"
    "github.com/amryassin/nile-cruise-booking/internal/config"
    "github.com/amryassin/nile-cruise-booking/internal/database"
    "github.com/amryassin/nile-cruise-booking/internal/handler"
    "github.com/amryassin/nile-cruise-booking/internal/queue"
    "github.com/amryassin/nile-cruise-booking/internal/repository"
    "github.com/amryassin/nile-cruise-booking/internal/router"
    queuepublisher "github.com/amryassin/nile-cruise-booking/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set the environment directly
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, database.Pool{
        MaxOpenConns:    cfg.DBMaxOpenConns,
        MaxIdleConns:    cfg.DBMaxIdleConns,
        ConnMaxLifetime: cfg.DBConnMaxLife,
        PingTimeout:     cfg.DBPingTimeout,
    })
    if err != nil {
        log.Fatalf("open database: %v", err)
    }
    defer db.Close()

    if cfg.AutoMigrate {
        if err := database.Migrate(context.Background(), db); err != nil {
            log.Fatalf("apply schema: %v", err)
        }
        log.Println("schema applied")
    }

    rdb := config.NewRedisClient() // nil disables caching and rate limiting
    if rdb == nil {
        log.Println("redis unavailable; caching and rate limiting disabled")
    }

    store := repository.NewStore(db)

    policy := booking.DefaultPolicy()
    policy.AllowPastDates = cfg.AllowPastDates
    policy.SearchWindowDays = cfg.SearchWindowDays
    policy.MaxAlternatives = cfg.MaxAlternatives
    policy.OperationTimeout = cfg.OpTimeout

    clock := booking.NewSystemClock()
    publisher := queuepublisher.New()

    checker := booking.NewAvailabilityService(store, clock, policy)
    finder := booking.NewAlternativeFinder(checker, policy)
    bookings := booking.NewBookingService(store, checker, clock, policy, publisher)
    lifecycle := booking.NewLifecycleService(store, checker, clock, policy, nil, publisher)

    // The consumer owns its reconnect loop; it runs for the life of the
    // process.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    router.Register(e, router.Deps{
        DB:           db,
        Redis:        rdb,
        JWTSecret:    cfg.JWTSecret,
        Availability: handler.NewAvailabilityHandler(checker, finder),
        Bookings:     handler.NewBookingHandler(bookings, lifecycle, finder, store),
        Admin:        handler.NewAdminBookingHandler(lifecycle),
    })

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
