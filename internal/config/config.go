package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Payload sources
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string

	// Where the server reads the payload from
	PayloadSource string
	PayloadFile   string
	DatabaseURL   string
	SQLitePath    string

	// Data fetch adapter (client side)
	BaseURL        string
	DataPath       string
	RequestTimeout time.Duration
	RetryAttempts  int

	// Session registry
	SessionTTL  time.Duration
	MaxSessions int

	// Logging
	LogDir      string
	LogMaxFiles int

	// Debug flags
	Debug bool // Enables debug-level logging
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:    tablePrefix,
		PayloadSource:  strings.ToLower(getEnv("PAYLOAD_SOURCE", SourceFile)),
		PayloadFile:    getEnv("PAYLOAD_FILE", "response.json"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "treeview.db"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		DataPath:       getEnv("DATA_PATH", "/api/data"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		RetryAttempts:  getInt("RETRY_ATTEMPTS", DefaultRetryAttempts),
		SessionTTL:     getDuration("SESSION_TTL", DefaultSessionTTL),
		MaxSessions:    getInt("MAX_SESSIONS", DefaultMaxSessions),
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    getInt("LOG_MAX_FILES", DefaultLogMaxFiles),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.PayloadSource, validation.Required, validation.In(SourceFile, SourcePostgres, SourceSQLite)),
		validation.Field(&c.PayloadFile, validation.When(c.PayloadSource == SourceFile, validation.Required)),
		validation.Field(&c.DatabaseURL, validation.When(c.PayloadSource == SourcePostgres, validation.Required)),
		validation.Field(&c.SQLitePath, validation.When(c.PayloadSource == SourceSQLite, validation.Required)),
		validation.Field(&c.DataPath, validation.Required, validation.By(startsWithSlash)),
		validation.Field(&c.RequestTimeout, validation.Min(time.Millisecond)),
		validation.Field(&c.RetryAttempts, validation.Min(0), validation.Max(MaxRetryAttempts)),
		validation.Field(&c.SessionTTL, validation.Min(time.Second)),
		validation.Field(&c.MaxSessions, validation.Min(1)),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

func startsWithSlash(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, "/") {
		return validation.NewError("validation_path", "must start with /")
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt falls back to the default when the value is missing or not a number
func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// getDuration accepts Go duration strings ("30s", "15m")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}
