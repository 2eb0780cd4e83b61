package config // package config loads application configuration from environment variables

import (
    "log"  // log is used to report configuration errors and halt execution
    "os"   // os provides access to environment variables
    "time" // time expresses the review window as a duration
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for windows.
type Config struct {
    Env            string        // application environment (e.g. "dev", "prod")
    Port           string        // HTTP port to listen on
    DBUser         string        // database username
    DBPass         string        // database password (optional)
    DBHost         string        // database host address
    DBPort         string        // database port number
    DBName         string        // database name
    JWTSecret      string        // secret used to verify bearer tokens
    BackendBaseURL string        // base URL of the upstream booking backend
    ReviewWindow   time.Duration // payment-review countdown length
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),          // environment (dev/test/prod)
        Port:           must("APP_PORT"),         // port to bind the HTTP server
        DBUser:         must("DB_USER"),          // database user
        DBPass:         os.Getenv("DB_PASS"),     // database password (empty allowed)
        DBHost:         must("DB_HOST"),          // database host
        DBPort:         must("DB_PORT"),          // database port
        DBName:         must("DB_NAME"),          // database name
        JWTSecret:      must("JWT_SECRET"),       // secret used to verify bearer tokens
        BackendBaseURL: must("BACKEND_BASE_URL"), // upstream booking API
        ReviewWindow:   durDefault("REVIEW_WINDOW", 5*time.Minute),
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

// durDefault parses an optional duration variable, falling back to the
// given default when unset or unparsable.
func durDefault(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Fatalf("invalid duration for %s: %q", key, v)
    }
    return d
}
