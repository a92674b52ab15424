package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Booking policy knobs have defaults so a
// minimal .env only needs the app and database settings.
type Config struct {
    Env       string // application environment (e.g. "dev", "prod")
    Port      string // HTTP port to listen on
    DBUser    string // database username
    DBPass    string // database password (optional)
    DBHost    string // database host address
    DBPort    string // database port number
    DBName    string // database name
    JWTSecret string // secret used to verify externally issued JWTs

    AutoMigrate bool // apply the embedded schema at startup

    // Connection pool bounds.
    DBMaxOpenConns int
    DBMaxIdleConns int
    DBConnMaxLife  time.Duration
    DBPingTimeout  time.Duration

    // Booking engine policy.
    AllowPastDates   bool          // accept ranges starting before today
    SearchWindowDays int           // alternative finder scan radius in days
    MaxAlternatives  int           // alternative finder result cap
    OpTimeout        time.Duration // per-operation bound for create/modify/cancel
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:       must("APP_ENV"),      // environment (dev/test/prod)
        Port:      must("APP_PORT"),     // port to bind the HTTP server
        DBUser:    must("DB_USER"),      // database user
        DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:    must("DB_HOST"),      // database host
        DBPort:    must("DB_PORT"),      // database port
        DBName:    must("DB_NAME"),      // database name
        JWTSecret: must("JWT_SECRET"),   // secret for verifying JWTs

        AutoMigrate: envBool("DB_AUTO_MIGRATE", false),

        DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
        DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 25),
        DBConnMaxLife:  envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
        DBPingTimeout:  envDur("DB_PING_TIMEOUT", 5*time.Second),

        AllowPastDates:   envBool("BOOKING_ALLOW_PAST_DATES", false),
        SearchWindowDays: envInt("BOOKING_SEARCH_WINDOW_DAYS", 60),
        MaxAlternatives:  envInt("BOOKING_MAX_ALTERNATIVES", 5),
        OpTimeout:        envDur("BOOKING_OP_TIMEOUT", 10*time.Second),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func envBool(key string, def bool) bool {
    switch os.Getenv(key) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return def
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if d, err := time.ParseDuration(v); err == nil {
        return d
    }
    return def
}
