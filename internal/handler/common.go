package handler // declare the package name; contains HTTP handlers

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/amryassin/nile-cruise-booking/internal/booking"
    "github.com/amryassin/nile-cruise-booking/internal/model"
)

const dateLayout = "2006-01-02"

// httpStatusFor maps engine outcome codes onto HTTP statuses.  Conflict
// shaped outcomes are 409 so clients can distinguish "try other dates"
// from bad input.
var httpStatusFor = map[booking.Code]int{
    booking.CodeNotFound:           http.StatusNotFound,
    booking.CodeInvalidRange:       http.StatusBadRequest,
    booking.CodeGuestCountMismatch: http.StatusBadRequest,
    booking.CodeCapacityExceeded:   http.StatusConflict,
    booking.CodeDateBlocked:        http.StatusConflict,
    booking.CodeDateConflict:       http.StatusConflict,
    booking.CodeInvalidTransition:  http.StatusConflict,
    booking.CodeAlreadyTerminal:    http.StatusConflict,
    booking.CodeStorageFailure:     http.StatusInternalServerError,
}

// respondBookingError renders an engine error as JSON.  Uncoded errors
// are infrastructure failures and are reported as STORAGE_FAILURE without
// leaking internals.  extra is merged into the body; the caller uses it
// to attach alternatives to conflict responses.
func respondBookingError(c echo.Context, err error, extra echo.Map) error {
    // Request-shape errors from parsing keep their own status.
    var he *echo.HTTPError
    if errors.As(err, &he) {
        return he
    }

    body := echo.Map{}
    for k, v := range extra {
        body[k] = v
    }

    be, ok := booking.AsError(err)
    if !ok {
        c.Logger().Errorf("booking: %v", err)
        body["code"] = string(booking.CodeStorageFailure)
        body["message"] = "a storage error occurred, please retry"
        return c.JSON(http.StatusInternalServerError, body)
    }

    body["code"] = string(be.Code)
    body["message"] = be.Message
    if be.BlockingDate != nil {
        body["blocking_date"] = be.BlockingDate.Format(dateLayout)
    }
    if len(be.Conflicts) > 0 {
        views := make([]echo.Map, 0, len(be.Conflicts))
        for _, r := range be.Conflicts {
            // Only the occupied window is exposed, never whose booking it is.
            views = append(views, echo.Map{
                "start_date": r.StartDate.Format(dateLayout),
                "end_date":   r.EndDate.Format(dateLayout),
                "status":     string(r.Status),
            })
        }
        body["conflicts"] = views
    }
    status, found := httpStatusFor[be.Code]
    if !found {
        status = http.StatusInternalServerError
    }
    return c.JSON(status, body)
}

// parseKind validates the :kind path segment.
func parseKind(c echo.Context) (model.ItemKind, error) {
    kind := model.ItemKind(c.Param("kind"))
    if !kind.Valid() {
        return "", echo.NewHTTPError(http.StatusBadRequest, "kind must be VESSEL or PACKAGE")
    }
    return kind, nil
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
    }
    return id, nil
}

// parseRange reads start and end query/body values as YYYY-MM-DD dates.
func parseRange(start, end string) (model.DateRange, error) {
    s, err := time.Parse(dateLayout, start)
    if err != nil {
        return model.DateRange{}, echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
    }
    e, err := time.Parse(dateLayout, end)
    if err != nil {
        return model.DateRange{}, echo.NewHTTPError(http.StatusBadRequest, "end must be YYYY-MM-DD")
    }
    return model.NewDateRange(s, e), nil
}

// reservationView is the JSON shape of a reservation across all booking
// endpoints.
func reservationView(r model.Reservation) echo.Map {
    v := echo.Map{
        "id":          r.ID,
        "reference":   r.Reference,
        "item_id":     r.ItemID,
        "item_kind":   string(r.ItemKind),
        "start_date":  r.StartDate.Format(dateLayout),
        "end_date":    r.EndDate.Format(dateLayout),
        "guest_count": r.GuestCount,
        "status":      string(r.Status),
        "total_cents": r.TotalCents,
        "created_at":  r.CreatedAt.UTC().Format(time.RFC3339),
    }
    if r.ContactName != "" {
        v["contact_name"] = r.ContactName
    }
    if r.ContactEmail != "" {
        v["contact_email"] = r.ContactEmail
    }
    if r.SpecialRequests != "" {
        v["special_requests"] = r.SpecialRequests
    }
    if len(r.Guests) > 0 {
        guests := make([]echo.Map, 0, len(r.Guests))
        for _, g := range r.Guests {
            guests = append(guests, echo.Map{
                "full_name":     g.FullName,
                "nationality":   g.Nationality,
                "document_id":   g.DocumentID,
                "dietary_notes": g.DietaryNotes,
            })
        }
        v["guests"] = guests
    }
    return v
}

// alternativeViews renders the finder's suggestions.
func alternativeViews(alts []booking.Alternative) []echo.Map {
    out := make([]echo.Map, 0, len(alts))
    for _, a := range alts {
        out = append(out, echo.Map{
            "start_date":  a.Range.Start.Format(dateLayout),
            "end_date":    a.Range.End.Format(dateLayout),
            "total_cents": a.TotalCents,
        })
    }
    return out
}
