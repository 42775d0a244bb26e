package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores DispatcherHub settings.
type Config struct {
	Port      int
	PublicURL string
	DisplayTZ *time.Location

	DB          DB
	DispatchAPI DispatchAPI
	Auth        Auth
	SMTP        SMTP
	Kafka       Kafka
	RateLimit   RateLimit
	Loads       Loads
	Invoicing   Invoicing
	Log         Log
	Pprof       Pprof
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a libpq-style connection URL.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// DispatchAPI stores settings for the external AI-dispatch API.
type DispatchAPI struct {
	BaseURL string
	// Timeout of 0 leaves requests to the transport defaults.
	Timeout time.Duration
}

// Auth stores magic-link and session settings.
type Auth struct {
	Secret          string
	LinkTTL         time.Duration
	SessionTTL      time.Duration
	CookieName      string
	CookieSecure    bool
	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval time.Duration
}

// SMTP stores outgoing mail settings. An empty Host logs links instead of mailing them.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Kafka stores load event settings. No brokers means in-process invoicing.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether a broker and topic are configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0 && strings.TrimSpace(k.Topic) != ""
}

// RateLimit stores sign-in rate limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Loads stores load lifecycle settings.
type Loads struct {
	StrictTransitions bool
}

// Invoicing stores invoice generation settings.
type Invoicing struct {
	Factoring bool
}

// Log stores logger settings.
type Log struct {
	Level  string
	Format string
}

// Pprof stores the debug listener settings.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:        defaultPort,
		PublicURL:   defaultPublicURL,
		DB:          defaultDB,
		DispatchAPI: defaultDispatchAPI,
		Auth:        defaultAuth,
		SMTP:        defaultSMTP,
		Kafka:       defaultKafka,
		RateLimit:   defaultRateLimit,
		Log:         defaultLog,
		Pprof:       defaultPprof,
	}
	e := &envReader{}

	e.int("PORT", &cfg.Port)
	e.str("PUBLIC_BASE_URL", &cfg.PublicURL)
	tz := defaultDisplayTZ
	e.str("DISPLAY_TZ", &tz)

	e.str("POSTGRES_HOST", &cfg.DB.Host)
	e.str("POSTGRES_PORT", &cfg.DB.Port)
	e.str("POSTGRES_USER", &cfg.DB.User)
	e.str("POSTGRES_PASSWORD", &cfg.DB.Pass)
	e.str("POSTGRES_DB", &cfg.DB.Name)

	e.str("DISPATCH_API_BASE_URL", &cfg.DispatchAPI.BaseURL)
	e.duration("DISPATCH_API_TIMEOUT", &cfg.DispatchAPI.Timeout)

	e.str("AUTH_SECRET", &cfg.Auth.Secret)
	e.duration("AUTH_LINK_TTL", &cfg.Auth.LinkTTL)
	e.duration("AUTH_SESSION_TTL", &cfg.Auth.SessionTTL)
	e.str("AUTH_COOKIE_NAME", &cfg.Auth.CookieName)
	e.bool("AUTH_COOKIE_SECURE", &cfg.Auth.CookieSecure)
	e.duration("AUTH_SESSION_CLEANUP_INTERVAL", &cfg.Auth.CleanupInterval)

	e.str("SMTP_HOST", &cfg.SMTP.Host)
	e.int("SMTP_PORT", &cfg.SMTP.Port)
	e.str("SMTP_USER", &cfg.SMTP.User)
	e.str("SMTP_PASSWORD", &cfg.SMTP.Pass)
	e.str("SMTP_FROM", &cfg.SMTP.From)

	e.list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	e.str("KAFKA_LOAD_EVENTS_TOPIC", &cfg.Kafka.Topic)
	e.str("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)

	e.bool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	e.float("RATE_LIMIT_RPS", &cfg.RateLimit.Rate)
	e.int("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)
	e.duration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL)
	e.int("RATE_LIMIT_MAX_BUCKETS", &cfg.RateLimit.MaxBuckets)

	e.bool("LOADS_STRICT_TRANSITIONS", &cfg.Loads.StrictTransitions)
	e.bool("INVOICE_FACTORING", &cfg.Invoicing.Factoring)

	e.str("LOG_LEVEL", &cfg.Log.Level)
	e.str("LOG_FORMAT", &cfg.Log.Format)

	e.bool("PPROF_ENABLED", &cfg.Pprof.Enabled)
	e.str("PPROF_ADDR", &cfg.Pprof.Addr)
	e.str("PPROF_USER", &cfg.Pprof.User)
	e.str("PPROF_PASSWORD", &cfg.Pprof.Pass)

	if e.err != nil {
		return nil, e.err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.DispatchAPI.BaseURL, "dispatch-api", cfg.DispatchAPI.BaseURL, "AI-dispatch API base URL")
	pflag.BoolVar(&cfg.Loads.StrictTransitions, "strict-transitions", cfg.Loads.StrictTransitions,
		"enforce the load lifecycle table on status changes")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TZ %q: %w", tz, err)
	}
	cfg.DisplayTZ = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Auth.Secret == defaultAuth.Secret {
		log.Printf("warning: AUTH_SECRET not set, using an insecure development secret")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid POSTGRES_PORT: %q", c.DB.Port)
	}
	if u, err := url.Parse(c.DispatchAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid dispatch API base URL: %q", c.DispatchAPI.BaseURL)
	}
	if u, err := url.Parse(c.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid PUBLIC_BASE_URL: %q", c.PublicURL)
	}
	if c.DispatchAPI.Timeout < 0 {
		return fmt.Errorf("invalid DISPATCH_API_TIMEOUT: %s", c.DispatchAPI.Timeout)
	}
	if c.Auth.LinkTTL <= 0 || c.Auth.SessionTTL <= 0 {
		return errors.New("auth TTLs must be positive")
	}
	if c.Auth.CleanupInterval <= 0 {
		return fmt.Errorf("invalid AUTH_SESSION_CLEANUP_INTERVAL: %s", c.Auth.CleanupInterval)
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("AUTH_SECRET must not be empty")
	}
	if c.Pprof.Enabled && strings.TrimSpace(c.Pprof.Addr) == "" {
		return errors.New("PPROF_ADDR must not be empty when pprof is enabled")
	}
	if c.Kafka.Enabled() && strings.TrimSpace(c.Kafka.GroupID) == "" {
		return errors.New("KAFKA_GROUP_ID must not be empty when brokers are set")
	}
	return nil
}

// envReader collects the first parse error so Load can read every key in sequence.
type envReader struct{ err error }

func (e *envReader) lookup(key string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(key, v string, err error) {
	e.err = fmt.Errorf("invalid %s=%q: %w", key, v, err)
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) bool(key string, dst *bool) {
	if v, ok := e.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = d
	}
}

func (e *envReader) list(key string, dst *[]string) {
	if v, ok := e.lookup(key); ok {
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}
