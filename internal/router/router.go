package router // package router defines how HTTP routes are registered for the API

import (
    "database/sql"
    "time"

    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing
    "github.com/redis/go-redis/v9"

    "github.com/amryassin/nile-cruise-booking/internal/handler"    // handlers implementing the booking API
    "github.com/amryassin/nile-cruise-booking/internal/middleware" // JWT, role, cache and rate-limit middleware
)

// Deps carries everything route registration needs.
type Deps struct {
    DB           *sql.DB
    Redis        *redis.Client // nil disables caching and rate limiting
    JWTSecret    string
    Availability *handler.AvailabilityHandler
    Bookings     *handler.BookingHandler
    Admin        *handler.AdminBookingHandler
}

// Register wires every route.  The surface splits three ways:
//
//   - public reads (health, availability, alternatives), cached and
//     rate-limited
//   - booking creation with optional auth, so guests can book too
//   - authenticated customer routes and ADMIN-only transitions
func Register(e *echo.Echo, d Deps) {
    e.GET("/healthz", handler.Health(d.DB))

    limiter := middleware.NewTokenBucket(middleware.RateLimit{
        Capacity:       30,
        RefillTokens:   10,
        RefillInterval: time.Second,
        TTL:            10 * time.Minute,
    }, d.Redis)

    // Availability reads are the hottest path; a short cache TTL keeps
    // repeated date-picker queries off the database.
    public := e.Group("/v1/items", limiter, middleware.NewRedisCache(d.Redis, 30*time.Second))
    public.GET("/:kind/:id/availability", d.Availability.Check)
    public.GET("/:kind/:id/alternatives", d.Availability.Alternatives)

    // Creation accepts both signed-in users and guests.  Never cached.
    e.POST("/v1/bookings", d.Bookings.Create, limiter, middleware.OptionalJWTAuth(d.JWTSecret))

    // Guests have no token; they look their booking up by reference plus
    // the contact email they booked with.
    e.GET("/v1/bookings/ref/:reference", d.Bookings.GetByReference, limiter)

    auth := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))
    auth.GET("/my-bookings", d.Bookings.ListMine)
    auth.GET("/bookings/:id", d.Bookings.Get)
    auth.POST("/bookings/:id/cancel", d.Bookings.Cancel)
    auth.PATCH("/bookings/:id", d.Bookings.Modify)

    admin := e.Group("/v1/admin", middleware.JWTAuth(d.JWTSecret), middleware.RequireRole("ADMIN"))
    admin.POST("/bookings/:id/confirm", d.Admin.Confirm)
    admin.POST("/bookings/:id/complete", d.Admin.Complete)
    admin.POST("/bookings/:id/refund", d.Admin.Refund)
}
