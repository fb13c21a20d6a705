// Package config provides configuration management for the budget server and CLI.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	API     APIConfig
	Auth    AuthConfig
	Link    LinkConfig
	Demo    DemoConfig
	Ledger  LedgerConfig
	Debug   bool
	AppEnv  string
}

// ServerConfig represents the mock backend listener.
type ServerConfig struct {
	Port string
}

// StorageConfig represents where local state is kept.
type StorageConfig struct {
	Driver      string
	DataRoot    string
	BoltPath    string
	DBPath      string
	ReceiptsDir string
	LedgerDir   string
}

// APIConfig represents how the CLI reaches the mock backend.
type APIConfig struct {
	URL     string
	Timeout time.Duration
}

// AuthConfig represents the placeholder login rules.
type AuthConfig struct {
	EmailDomain string
	MinPassword int
}

// LinkConfig represents the simulated linking latency.
type LinkConfig struct {
	DelayMin time.Duration
	DelayMax time.Duration
}

// DemoConfig represents the demo data generator.
type DemoConfig struct {
	// ProfilePath overrides the embedded demo profile when set.
	ProfilePath string
	// Seed fixes the generator; 0 means seed from the clock.
	Seed int64
}

// LedgerConfig represents the Beancount export.
type LedgerConfig struct {
	// AccountsPath overrides parts of the embedded account mapping when set.
	AccountsPath string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	apiTimeout, err := parseDurationEnv("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	delayMin, err := parseDurationEnv("LINK_DELAY_MIN", time.Second)
	if err != nil {
		return nil, err
	}
	delayMax, err := parseDurationEnv("LINK_DELAY_MAX", 2*time.Second)
	if err != nil {
		return nil, err
	}
	minPassword, err := parseInt64Env("AUTH_MIN_PASSWORD", 6)
	if err != nil {
		return nil, err
	}
	seed, err := parseInt64Env("DEMO_SEED", 0)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverBolt)),
			DataRoot:    getEnvOrDefault("DATA_ROOT", "./data"),
			BoltPath:    os.Getenv("BOLT_PATH"),
			DBPath:      os.Getenv("DB_PATH"),
			ReceiptsDir: os.Getenv("RECEIPTS_DIR"),
			LedgerDir:   os.Getenv("LEDGER_DIR"),
		},
		API: APIConfig{
			URL:     getEnvOrDefault("API_URL", "http://localhost:8080"),
			Timeout: apiTimeout,
		},
		Auth: AuthConfig{
			EmailDomain: getEnvOrDefault("AUTH_EMAIL_DOMAIN", "bravemail.uncp.edu"),
			MinPassword: int(minPassword),
		},
		Link: LinkConfig{
			DelayMin: delayMin,
			DelayMax: delayMax,
		},
		Demo: DemoConfig{
			ProfilePath: os.Getenv("DEMO_PROFILE"),
			Seed:        seed,
		},
		Ledger: LedgerConfig{
			AccountsPath: os.Getenv("LEDGER_ACCOUNTS"),
		},
		Debug:  os.Getenv("DEBUG") == "true",
		AppEnv: getEnvOrDefault("APP_ENV", "development"),
	}

	return config, nil
}

// Validate checks that the dotted paths in required are set and that the
// values that are set are consistent.
func (c *Config) Validate(required ...string) error {
	var missing []string
	for _, path := range required {
		if c.lookup(path) == "" {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	switch c.Storage.Driver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: expected %s or %s", c.Storage.Driver, DriverBolt, DriverSQLite)
	}
	if c.Link.DelayMin < 0 || c.Link.DelayMax < c.Link.DelayMin {
		return fmt.Errorf("invalid link delay range [%s, %s]", c.Link.DelayMin, c.Link.DelayMax)
	}
	if c.Auth.MinPassword < 1 {
		return fmt.Errorf("AUTH_MIN_PASSWORD must be positive, got %d", c.Auth.MinPassword)
	}
	return nil
}

func (c *Config) lookup(path string) string {
	switch path {
	case "server.port":
		return c.Server.Port
	case "storage.dataRoot":
		return c.Storage.DataRoot
	case "storage.boltPath":
		return c.Storage.BoltPath
	case "storage.dbPath":
		return c.Storage.DBPath
	case "storage.receiptsDir":
		return c.Storage.ReceiptsDir
	case "storage.ledgerDir":
		return c.Storage.LedgerDir
	case "api.url":
		return c.API.URL
	case "auth.emailDomain":
		return c.Auth.EmailDomain
	case "demo.profile":
		return c.Demo.ProfilePath
	}
	return ""
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt64Env parses an int64 from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseInt64Env(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}

// parseDurationEnv accepts Go durations ("1500ms") or plain milliseconds.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return d, nil
}
