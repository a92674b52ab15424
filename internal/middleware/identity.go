package middleware

// identity.go holds helpers shared across middleware files for reading the
// identity that JWTAuth stored in the Echo context.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the numeric account id from the context, or nil when the
// request is anonymous.  JWT numeric claims decode as float64, but string
// subjects are accepted too.
func UserID(c echo.Context) *uint64 {
    v := c.Get("user_id")
    if v == nil {
        return nil
    }
    switch t := v.(type) {
    case float64:
        if t > 0 {
            id := uint64(t)
            return &id
        }
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
            return &n
        }
    case uint64:
        if t > 0 {
            id := t
            return &id
        }
    }
    return nil
}

// identityKey is the rate-limit keying form of the identity: the user id
// when present, the string "anon" otherwise.
func identityKey(c echo.Context) string {
    if id := UserID(c); id != nil {
        return strconv.FormatUint(*id, 10)
    }
    return "anon"
}
