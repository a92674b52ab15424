package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/amryassin/nile-cruise-booking/internal/booking"
)

// AvailabilityHandler serves the read-only availability surface: the
// direct yes/no check and the nearby-window search.
type AvailabilityHandler struct {
    checker *booking.AvailabilityService
    finder  *booking.AlternativeFinder
}

// NewAvailabilityHandler wires the availability endpoints.
func NewAvailabilityHandler(checker *booking.AvailabilityService, finder *booking.AlternativeFinder) *AvailabilityHandler {
    return &AvailabilityHandler{checker: checker, finder: finder}
}

// Check handles GET /v1/items/:kind/:id/availability?start=&end=&guests=.
// Both verdicts return 200: unavailability is an answer, not an error.
func (h *AvailabilityHandler) Check(c echo.Context) error {
    in, err := h.parseQuery(c)
    if err != nil {
        return err
    }

    res, err := h.checker.Check(c.Request().Context(), in)
    if err != nil {
        return respondBookingError(c, err, nil)
    }

    body := echo.Map{"available": res.Available}
    if res.Available {
        body["total_cents"] = res.TotalCents
    } else {
        body["code"] = string(res.Reason)
        body["message"] = res.Message
        if res.BlockingDate != nil {
            body["blocking_date"] = res.BlockingDate.Format(dateLayout)
        }
        if len(res.Conflicts) > 0 {
            views := make([]echo.Map, 0, len(res.Conflicts))
            for _, r := range res.Conflicts {
                views = append(views, echo.Map{
                    "start_date": r.StartDate.Format(dateLayout),
                    "end_date":   r.EndDate.Format(dateLayout),
                    "status":     string(r.Status),
                })
            }
            body["conflicts"] = views
        }
    }
    return c.JSON(http.StatusOK, body)
}

// Alternatives handles GET /v1/items/:kind/:id/alternatives with the same
// query parameters.  It returns bookable windows of the requested length
// near the preferred start, closest first.
func (h *AvailabilityHandler) Alternatives(c echo.Context) error {
    in, err := h.parseQuery(c)
    if err != nil {
        return err
    }

    alts, err := h.finder.Find(c.Request().Context(), in.Kind, in.ItemID, in.Range, in.GuestCount)
    if err != nil {
        return respondBookingError(c, err, nil)
    }
    return c.JSON(http.StatusOK, echo.Map{"alternatives": alternativeViews(alts)})
}

func (h *AvailabilityHandler) parseQuery(c echo.Context) (booking.CheckInput, error) {
    kind, err := parseKind(c)
    if err != nil {
        return booking.CheckInput{}, err
    }
    id, err := parseID(c, "id")
    if err != nil {
        return booking.CheckInput{}, err
    }
    rng, err := parseRange(c.QueryParam("start"), c.QueryParam("end"))
    if err != nil {
        return booking.CheckInput{}, err
    }
    guests, err := strconv.ParseUint(c.QueryParam("guests"), 10, 32)
    if err != nil || guests == 0 {
        return booking.CheckInput{}, echo.NewHTTPError(http.StatusBadRequest, "guests must be a positive integer")
    }
    return booking.CheckInput{Kind: kind, ItemID: id, Range: rng, GuestCount: uint32(guests)}, nil
}
