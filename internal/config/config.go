// Package config reads server settings from the environment.
//
// Load first applies an optional .env file, then FromEnv parses the process
// environment. FromEnv takes the lookup function as a parameter so tests can
// feed it a map instead of mutating os.Environ.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full server configuration.
type Config struct {
	Port     int
	LogLevel slog.Level
	Driver   string

	// Postgres driver.
	IdentityDSN       string
	IdentityVerifyTLS bool
	AppDSN            string
	AppVerifyTLS      bool
	MigrateAppStore   bool

	// SQLite driver.
	IdentityDBPath string
	AppDBPath      string

	CORSOrigins []string
}

// Load reads .env (if present) into the environment without overriding
// variables that are already set, then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Driver:         strings.ToLower(env("STORE_DRIVER", DriverPostgres)),
		IdentityDBPath: env("IDENTITY_DB_PATH", "data/identity.db"),
		AppDBPath:      env("APP_DB_PATH", "data/app.db"),
		AppDSN:         env("SUPABASE_DB_URL", ""),
	}

	port, err := strconv.Atoi(env("PORT", "5000"))
	if err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %q", getenv("PORT"))
	}
	cfg.Port = port

	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"COCKROACH_SSL_REJECT_UNAUTHORIZED", &cfg.IdentityVerifyTLS},
		{"SUPABASE_SSL_REJECT_UNAUTHORIZED", &cfg.AppVerifyTLS},
		{"APP_STORE_MIGRATE", &cfg.MigrateAppStore},
	}
	for _, b := range bools {
		v, err := strconv.ParseBool(env(b.key, "false"))
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid %s: %w", b.key, err)
		}
		*b.dst = v
	}

	for _, o := range strings.Split(env("CORS_ORIGIN", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	switch cfg.Driver {
	case DriverSQLite:
	case DriverPostgres:
		cfg.IdentityDSN = env("IDENTITY_DB_URL", "")
		if cfg.IdentityDSN == "" {
			cfg.IdentityDSN, err = cockroachDSN(getenv, cfg.IdentityVerifyTLS)
			if err != nil {
				return Config{}, err
			}
		}
		if cfg.AppDSN == "" {
			return Config{}, errors.New("config: SUPABASE_DB_URL is required for the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}

// cockroachDSN assembles a postgres:// URL from the COCKROACH_* parts.
// sslmode follows the verification switch: verify-full when certificates are
// checked, require otherwise.
func cockroachDSN(getenv func(string) string, verifyTLS bool) (string, error) {
	host := getenv("COCKROACH_HOST")
	if host == "" {
		return "", errors.New("config: IDENTITY_DB_URL or COCKROACH_HOST is required for the postgres driver")
	}
	port := getenv("COCKROACH_PORT")
	if port == "" {
		port = "26257"
	}

	sslmode := "require"
	if verifyTLS {
		sslmode = "verify-full"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getenv("COCKROACH_USER"), getenv("COCKROACH_PASSWORD")),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + getenv("COCKROACH_DATABASE"),
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String(), nil
}
