package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the simulated-latency durations
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for durations and
// costs, time.Durations for the simulated latencies the product's UX keeps
// from its front-end origins.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	StoreDriver  string // document store backend: "mysql" or "memory"
	DBUser       string // database username (mysql driver only)
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes

	PlatformAdminPass string // password required for Platform Admin logins
	BcryptCost        int    // cost factor for bcrypt hashing

	GeminiBaseURL string // generative-language API base URL
	GeminiAPIKey  string // API key appended to generateContent calls
	GeminiModel   string // model name, e.g. "gemini-1.5-flash"

	// Simulated latencies. The original product showed artificial
	// 800-2000ms delays for syncs, uploads and checkout; they are
	// reproduced as configurable delays so tests can zero them.
	SimSyncDelay     time.Duration
	SimUploadDelay   time.Duration
	SimCheckoutDelay time.Duration
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Database variables
// are required only when the mysql store driver is selected.
func Load() Config {
	cfg := Config{
		Env:          must("APP_ENV"),  // environment (dev/test/prod)
		Port:         must("APP_PORT"), // port to bind the HTTP server
		StoreDriver:  getenv("STORE_DRIVER", "mysql"),
		JWTSecret:    must("JWT_SECRET"),              // secret used for signing JWTs
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"), // TTL for access tokens in minutes

		// Demo deployments ship with the documented default; production
		// sets its own value.
		PlatformAdminPass: getenv("PLATFORM_ADMIN_PASS", "pa1234"),
		BcryptCost:        atoi(getenv("BCRYPT_COST", "10")),

		GeminiBaseURL: getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"), // empty disables real calls; handlers fall back
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-1.5-flash"),

		SimSyncDelay:     parseDur(getenv("SIM_SYNC_DELAY", "2s")),
		SimUploadDelay:   parseDur(getenv("SIM_UPLOAD_DELAY", "1500ms")),
		SimCheckoutDelay: parseDur(getenv("SIM_CHECKOUT_DELAY", "800ms")),
	}
	if cfg.StoreDriver == "mysql" {
		cfg.DBUser = must("DB_USER")      // database user
		cfg.DBPass = os.Getenv("DB_PASS") // database password (empty allowed)
		cfg.DBHost = must("DB_HOST")      // database host
		cfg.DBPort = must("DB_PORT")      // database port
		cfg.DBName = must("DB_NAME")      // database name
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// Helper functions shared by the cache and rate-limit loaders.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
