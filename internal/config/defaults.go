package config

import "time"

const (
	defaultPort      = 8080
	defaultPublicURL = "http://localhost:8080"
	defaultDisplayTZ = "UTC"
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatcherhub",
}

var defaultDispatchAPI = DispatchAPI{
	BaseURL: "http://localhost:3001",
}

var defaultAuth = Auth{
	Secret:          "dev-insecure-secret-change-me",
	LinkTTL:         15 * time.Minute,
	SessionTTL:      30 * 24 * time.Hour,
	CookieName:      "dh_session",
	CleanupInterval: time.Hour,
}

var defaultSMTP = SMTP{
	Port: 587,
	From: "DispatcherHub <no-reply@localhost>",
}

var defaultKafka = Kafka{
	Topic:   "load-status-changed",
	GroupID: "dispatcherhub-invoicer",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       0.2,
	Burst:      5,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultLog = Log{
	Level:  "info",
	Format: "json",
}

var defaultPprof = Pprof{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultDispatchAPI returns the default AI-dispatch API settings.
func DefaultDispatchAPI() DispatchAPI {
	return defaultDispatchAPI
}

// DefaultAuth returns the default auth settings.
func DefaultAuth() Auth {
	return defaultAuth
}

// DefaultRateLimit returns the default sign-in rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
