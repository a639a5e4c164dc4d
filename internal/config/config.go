package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mode selects the storage strategy used by the reservation and event stores.
type Mode string

const (
	ModeLocal    Mode = "local"
	ModeRemote   Mode = "remote"
	ModeSupabase Mode = "supabase"
)

const (
	defaultReservationsTable = "reservations"
	defaultEventsTable       = "events"
)

type Config struct {
	ServerPort          string        `mapstructure:"SERVER_PORT"`
	AppEnv              string        `mapstructure:"APP_ENV"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	PostgresURL         string        `mapstructure:"POSTGRES_URL"`
	PostgresPublicURL   string        `mapstructure:"POSTGRES_PUBLIC_URL"`
	RedisAddr           string        `mapstructure:"REDIS_ADDR"`
	RedisPassword       string        `mapstructure:"REDIS_PASSWORD"`
	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	ReservationsTable   string        `mapstructure:"RESERVATIONS_TABLE"`
	EventsTable         string        `mapstructure:"EVENTS_TABLE"`
	APIMode             Mode          `mapstructure:"API_MODE"`
	RemoteAPIURL        string        `mapstructure:"REMOTE_API_URL"`
	RemoteAPIToken      string        `mapstructure:"REMOTE_API_TOKEN"`
	ProfileFetchTimeout time.Duration `mapstructure:"PROFILE_FETCH_TIMEOUT"`
	SignOutSettleDelay  time.Duration `mapstructure:"SIGN_OUT_SETTLE_DELAY"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("POSTGRES_PUBLIC_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("RESERVATIONS_TABLE", defaultReservationsTable)
	v.SetDefault("EVENTS_TABLE", defaultEventsTable)
	v.SetDefault("API_MODE", string(ModeLocal))
	v.SetDefault("REMOTE_API_URL", "")
	v.SetDefault("REMOTE_API_TOKEN", "")
	v.SetDefault("PROFILE_FETCH_TIMEOUT", "4s")
	v.SetDefault("SIGN_OUT_SETTLE_DELAY", "100ms")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg.normalize()
}

func (c Config) normalize() Config {
	c.PostgresURL = strings.TrimSpace(c.PostgresURL)
	c.PostgresPublicURL = strings.TrimSpace(c.PostgresPublicURL)
	if c.PostgresPublicURL == "" {
		c.PostgresPublicURL = c.PostgresURL
	}
	c.ReservationsTable = orDefault(c.ReservationsTable, defaultReservationsTable)
	c.EventsTable = orDefault(c.EventsTable, defaultEventsTable)
	c.RemoteAPIURL = strings.TrimSpace(c.RemoteAPIURL)
	c.APIMode = ParseMode(string(c.APIMode))
	if c.ProfileFetchTimeout <= 0 {
		c.ProfileFetchTimeout = 4 * time.Second
	}
	if c.SignOutSettleDelay < 0 {
		c.SignOutSettleDelay = 0
	}
	return c
}

// BackendConfigured reports whether a database URL was supplied.
func (c Config) BackendConfigured() bool {
	return c.PostgresURL != ""
}

// ParseMode maps a raw API_MODE value to a Mode. Unknown values fall back to local.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeRemote):
		return ModeRemote
	case string(ModeSupabase), "postgres":
		return ModeSupabase
	default:
		return ModeLocal
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
