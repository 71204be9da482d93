package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string // empty disables cache and idempotency
	RedisDB   int

	CacheTTLSecs int
	IdempTTLSecs int
	DocumentName string

	// client side
	GatewayURL         string
	MirrorPath         string
	GatewayTimeoutSecs int
	Timezone           string
	AmountLocale       string
	Currency           string

	LogLevel string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// LoadDotenv reads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotenv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "8080"),

		DBDriver:   getenv("DB_DRIVER", "sqlite"),
		SQLitePath: getenv("SQLITE_PATH", filepath.Join("data", "data.db")),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loanbook"),
		MySQLUser: getenv("MYSQL_USER", "loanbook"),
		MySQLPass: getenv("MYSQL_PASS", "loanbook"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		CacheTTLSecs: getenvInt("CACHE_TTL_SECONDS", 300),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		DocumentName: getenv("DOCUMENT_NAME", "loans"),

		GatewayURL:         getenv("GATEWAY_URL", "http://localhost:8080/document"),
		MirrorPath:         getenv("MIRROR_PATH", defaultMirrorPath()),
		GatewayTimeoutSecs: getenvInt("GATEWAY_TIMEOUT_SECONDS", 0),
		Timezone:           getenv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		AmountLocale:       getenv("AMOUNT_LOCALE", "vi"),
		Currency:           getenv("CURRENCY_LABEL", "VND"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

func defaultMirrorPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "loanbook", "mirror.db")
}

// Validate checks the settings the gateway server needs.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (sqlite|mysql)", c.DBDriver)
	}
	if c.CacheTTLSecs < 0 || c.IdempTTLSecs < 0 {
		return errors.New("TTL settings must not be negative")
	}
	return nil
}

// ValidateClient checks the settings the loans CLI needs.
func (c *Config) ValidateClient() error {
	if c.MirrorPath == "" {
		return errors.New("missing MIRROR_PATH")
	}
	if c.GatewayTimeoutSecs < 0 {
		return errors.New("GATEWAY_TIMEOUT_SECONDS must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) { return time.LoadLocation(c.Timezone) }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is what db.OpenGorm expects for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" {
		return c.MySQLDSN()
	}
	return c.SQLitePath
}

func (c *Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSecs) * time.Second }

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSecs) * time.Second
}
