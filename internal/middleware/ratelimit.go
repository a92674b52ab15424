package middleware

import (
    "math"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// RateLimit bounds a token-bucket limiter.  One bucket is kept per client
// identity and route.
type RateLimit struct {
    Capacity       int           // burst size
    RefillTokens   int           // tokens added per interval
    RefillInterval time.Duration // refill cadence
    TTL            time.Duration // idle bucket expiry
}

// NewTokenBucket returns a Redis-backed token bucket middleware.  The bucket
// state lives in a Redis hash and is refilled lazily by a Lua script, so the
// check-and-decrement is atomic across instances.  When Redis is down the
// limiter fails open.
func NewTokenBucket(lim RateLimit, rdb *redis.Client) echo.MiddlewareFunc {
    if rdb == nil || lim.Capacity <= 0 {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    if lim.TTL <= 0 {
        lim.TTL = 10 * time.Minute
    }

    bucketScript := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_tokens = tonumber(ARGV[3])
        local interval_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local tokens = tonumber(state[1])
        local last_refill = tonumber(state[2])

        if tokens == nil or last_refill == nil then
            tokens = capacity
            last_refill = now_ms
        end

        if interval_ms > 0 and refill_tokens > 0 then
            local elapsed = math.max(0, now_ms - last_refill)
            local intervals = math.floor(elapsed / interval_ms)
            if intervals > 0 then
                tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                last_refill = last_refill + (intervals * interval_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local until_next = interval_ms - (now_ms - last_refill)
            if until_next < 0 then until_next = 0 end
            retry_after_ms = until_next
        end

        redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, tokens, retry_after_ms }
    `)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := "ratelimit:" + identityKey(c) + ":" + c.RealIP() + ":" + c.Path()

            ctx := c.Request().Context()
            vals, err := bucketScript.Run(ctx, rdb, []string{key},
                time.Now().UnixMilli(),
                lim.Capacity,
                lim.RefillTokens,
                lim.RefillInterval.Milliseconds(),
                int64(lim.TTL/time.Second),
            ).Result()
            if err != nil {
                return next(c)
            }

            arr, ok := vals.([]interface{})
            if !ok || len(arr) != 3 {
                return next(c)
            }
            allowed := asInt64(arr[0]) == 1
            remaining := asInt64(arr[1])
            retryMs := asInt64(arr[2])

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(lim.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000.0))
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64:
        return t
    case int:
        return int64(t)
    case float64:
        return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil {
            return n
        }
    }
    return 0
}
