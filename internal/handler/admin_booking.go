package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/amryassin/nile-cruise-booking/internal/booking"
    "github.com/amryassin/nile-cruise-booking/internal/model"
)

// AdminBookingHandler exposes the lifecycle transitions only staff may
// perform: confirming payment, marking a cruise completed and issuing a
// refund after cancellation.
type AdminBookingHandler struct {
    lifecycle *booking.LifecycleService
}

// NewAdminBookingHandler wires the admin transition endpoints.
func NewAdminBookingHandler(lifecycle *booking.LifecycleService) *AdminBookingHandler {
    return &AdminBookingHandler{lifecycle: lifecycle}
}

// Confirm handles POST /v1/admin/bookings/:id/confirm.
func (h *AdminBookingHandler) Confirm(c echo.Context) error {
    return h.transition(c, model.StatusConfirmed)
}

// Complete handles POST /v1/admin/bookings/:id/complete.
func (h *AdminBookingHandler) Complete(c echo.Context) error {
    return h.transition(c, model.StatusCompleted)
}

// Refund handles POST /v1/admin/bookings/:id/refund.  Only cancelled
// reservations can be refunded; the state machine enforces that.
func (h *AdminBookingHandler) Refund(c echo.Context) error {
    return h.transition(c, model.StatusRefunded)
}

func (h *AdminBookingHandler) transition(c echo.Context, target model.ReservationStatus) error {
    id, err := parseID(c, "id")
    if err != nil {
        return err
    }
    res, err := h.lifecycle.Transition(c.Request().Context(), id, target)
    if err != nil {
        return respondBookingError(c, err, nil)
    }
    return c.JSON(http.StatusOK, reservationView(res))
}
