package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/amryassin/nile-cruise-booking/internal/booking"
    "github.com/amryassin/nile-cruise-booking/internal/middleware"
    "github.com/amryassin/nile-cruise-booking/internal/model"
    "github.com/amryassin/nile-cruise-booking/internal/repository"
)

// BookingHandler serves the customer-facing booking endpoints: create,
// list, inspect, cancel and modify.
type BookingHandler struct {
    svc       *booking.BookingService
    lifecycle *booking.LifecycleService
    finder    *booking.AlternativeFinder
    store     *repository.Store
}

// NewBookingHandler wires the booking endpoints.
func NewBookingHandler(svc *booking.BookingService, lifecycle *booking.LifecycleService, finder *booking.AlternativeFinder, store *repository.Store) *BookingHandler {
    return &BookingHandler{svc: svc, lifecycle: lifecycle, finder: finder, store: store}
}

// createRequest is the POST /v1/bookings body.  Contact fields are
// required for guest checkout and optional for signed-in users.
type createRequest struct {
    ItemKind        string         `json:"item_kind"`
    ItemID          uint64         `json:"item_id"`
    StartDate       string         `json:"start_date"`
    EndDate         string         `json:"end_date"`
    GuestCount      uint32         `json:"guest_count"`
    ContactName     string         `json:"contact_name"`
    ContactEmail    string         `json:"contact_email"`
    SpecialRequests string         `json:"special_requests"`
    Guests          []guestRequest `json:"guests"`
}

type guestRequest struct {
    FullName     string `json:"full_name"`
    Nationality  string `json:"nationality"`
    DocumentID   string `json:"document_id"`
    DietaryNotes string `json:"dietary_notes"`
}

// Create handles POST /v1/bookings.  On a date conflict or blocked date
// the 409 body carries alternative windows so the client can offer them
// without a second round trip.
func (h *BookingHandler) Create(c echo.Context) error {
    var req createRequest
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
    }
    kind := model.ItemKind(req.ItemKind)
    if !kind.Valid() {
        return echo.NewHTTPError(http.StatusBadRequest, "item_kind must be VESSEL or PACKAGE")
    }
    rng, err := parseRange(req.StartDate, req.EndDate)
    if err != nil {
        return err
    }

    in := booking.CreateInput{
        Kind:            kind,
        ItemID:          req.ItemID,
        Range:           rng,
        GuestCount:      req.GuestCount,
        UserID:          middleware.UserID(c),
        ContactName:     req.ContactName,
        ContactEmail:    req.ContactEmail,
        SpecialRequests: req.SpecialRequests,
    }
    for _, g := range req.Guests {
        in.Roster = append(in.Roster, model.Guest{
            FullName:     g.FullName,
            Nationality:  g.Nationality,
            DocumentID:   g.DocumentID,
            DietaryNotes: g.DietaryNotes,
        })
    }

    res, err := h.svc.Create(c.Request().Context(), in)
    if err != nil {
        return respondBookingError(c, err, h.alternativesFor(c, err, in))
    }
    return c.JSON(http.StatusCreated, reservationView(res))
}

// alternativesFor attaches nearby windows to conflict responses.  The
// search is best-effort; a failed search never masks the original error.
func (h *BookingHandler) alternativesFor(c echo.Context, err error, in booking.CreateInput) echo.Map {
    code, ok := booking.CodeOf(err)
    if !ok || (code != booking.CodeDateConflict && code != booking.CodeDateBlocked) {
        return nil
    }
    alts, ferr := h.finder.Find(c.Request().Context(), in.Kind, in.ItemID, in.Range, in.GuestCount)
    if ferr != nil || len(alts) == 0 {
        return nil
    }
    return echo.Map{"alternatives": alternativeViews(alts)}
}

// ListMine handles GET /v1/my-bookings for the authenticated user.
func (h *BookingHandler) ListMine(c echo.Context) error {
    uid := middleware.UserID(c)
    if uid == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
    }
    list, err := h.store.Reservations.ListByUser(c.Request().Context(), *uid)
    if err != nil {
        return respondBookingError(c, err, nil)
    }
    views := make([]echo.Map, 0, len(list))
    for _, r := range list {
        views = append(views, reservationView(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// Get handles GET /v1/bookings/:id.  Non-owners get 404 rather than 403
// so reservation ids cannot be probed.  Cancelled bookings include the
// fee breakdown.
func (h *BookingHandler) Get(c echo.Context) error {
    res, err := h.loadOwned(c)
    if err != nil {
        return respondBookingError(c, err, nil)
    }

    body := reservationView(res)
    if res.Status == model.StatusCancelled || res.Status == model.StatusRefunded {
        if rec, err := h.store.Reservations.GetCancellation(c.Request().Context(), res.ID); err == nil {
            body["cancellation"] = echo.Map{
                "reason":       rec.Reason,
                "fee_cents":    rec.FeeCents,
                "refund_cents": rec.RefundCents,
                "cancelled_at": rec.CancelledAt.UTC().Format(dateLayout),
            }
        }
    }
    if isAdmin(c) {
        if events, err := h.store.Events.ListByReservation(c.Request().Context(), res.ID); err == nil {
            history := make([]echo.Map, 0, len(events))
            for _, ev := range events {
                history = append(history, echo.Map{
                    "event_type":  ev.EventType,
                    "occurred_at": ev.OccurredAt.UTC().Format(time.RFC3339),
                })
            }
            body["history"] = history
        }
    }
    return c.JSON(http.StatusOK, body)
}

// GetByReference handles GET /v1/bookings/ref/:reference?email= for guests
// who booked without an account.  The reference alone is not enough; the
// contact email must match, and mismatches look identical to misses.
func (h *BookingHandler) GetByReference(c echo.Context) error {
    reference := c.Param("reference")
    email := c.QueryParam("email")
    if reference == "" || email == "" {
        return echo.NewHTTPError(http.StatusBadRequest, "reference and email are required")
    }

    res, err := h.store.Reservations.GetByReference(c.Request().Context(), reference)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return respondBookingError(c, booking.E(booking.CodeNotFound, "reservation not found"), nil)
        }
        return respondBookingError(c, err, nil)
    }
    if res.ContactEmail == "" || !strings.EqualFold(res.ContactEmail, email) {
        return respondBookingError(c, booking.E(booking.CodeNotFound, "reservation not found"), nil)
    }
    return c.JSON(http.StatusOK, reservationView(res))
}

// cancelRequest is the POST /v1/bookings/:id/cancel body.
type cancelRequest struct {
    Reason string `json:"reason"`
}

// Cancel handles POST /v1/bookings/:id/cancel.  The response reports the
// tiered fee charged and the resulting refund.
func (h *BookingHandler) Cancel(c echo.Context) error {
    res, err := h.loadOwned(c)
    if err != nil {
        return respondBookingError(c, err, nil)
    }
    var req cancelRequest
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
    }

    out, err := h.lifecycle.Cancel(c.Request().Context(), res.ID, req.Reason, actorLabel(c))
    if err != nil {
        return respondBookingError(c, err, nil)
    }
    body := reservationView(out.Reservation)
    body["cancellation"] = echo.Map{
        "fee_cents":    out.Record.FeeCents,
        "refund_cents": out.Record.RefundCents,
    }
    return c.JSON(http.StatusOK, body)
}

// modifyRequest is the PATCH /v1/bookings/:id body.
type modifyRequest struct {
    StartDate  string `json:"start_date"`
    EndDate    string `json:"end_date"`
    GuestCount uint32 `json:"guest_count"`
}

// Modify handles PATCH /v1/bookings/:id: new dates and guest count are
// re-validated and re-priced atomically.
func (h *BookingHandler) Modify(c echo.Context) error {
    res, err := h.loadOwned(c)
    if err != nil {
        return respondBookingError(c, err, nil)
    }
    var req modifyRequest
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
    }
    rng, err := parseRange(req.StartDate, req.EndDate)
    if err != nil {
        return err
    }

    updated, err := h.lifecycle.Modify(c.Request().Context(), booking.ModifyInput{
        ReservationID: res.ID,
        Range:         rng,
        GuestCount:    req.GuestCount,
    })
    if err != nil {
        in := booking.CreateInput{Kind: res.ItemKind, ItemID: res.ItemID, Range: rng, GuestCount: req.GuestCount}
        return respondBookingError(c, err, h.alternativesFor(c, err, in))
    }
    return c.JSON(http.StatusOK, reservationView(updated))
}

// loadOwned fetches the reservation and enforces ownership: customers
// only see their own bookings, admins see all.  Missing and foreign rows
// are indistinguishable to the caller.
func (h *BookingHandler) loadOwned(c echo.Context) (model.Reservation, error) {
    id, err := parseID(c, "id")
    if err != nil {
        return model.Reservation{}, err
    }
    res, err := h.store.Reservations.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return model.Reservation{}, booking.E(booking.CodeNotFound, "reservation not found")
        }
        return model.Reservation{}, err
    }
    if isAdmin(c) {
        return res, nil
    }
    uid := middleware.UserID(c)
    if res.UserID == nil || uid == nil || *res.UserID != *uid {
        return model.Reservation{}, booking.E(booking.CodeNotFound, "reservation not found")
    }
    return res, nil
}

func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == "ADMIN"
}

// actorLabel names who performed a mutation for the audit trail.
func actorLabel(c echo.Context) string {
    if isAdmin(c) {
        return "admin"
    }
    return "customer"
}
