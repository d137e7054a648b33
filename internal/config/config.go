// Package config loads the application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the binary needs to come up.
type Config struct {
	Addr        string
	DatabaseDSN string

	PrivateKeyFile string
	PublicKeyFile  string

	SPAURL string
	Debug  bool

	SMTP SMTP
}

// SMTP holds the mail delivery settings. An empty Host disables delivery.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Load reads the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           envString("ADDR", ":3000"),
		// foreign_keys must be enabled per connection or the user delete
		// cascade never fires.
		DatabaseDSN:    envString("DATABASE_URL", "file:dracker.db?cache=shared&mode=rwc&_pragma=foreign_keys(1)"),
		PrivateKeyFile: envString("PRIVATE_KEY_FILE", "private.pem"),
		PublicKeyFile:  envString("PUBLIC_KEY_FILE", "public.pem"),
		SPAURL:         envString("SPA_URL", "http://localhost:5173"),
		Debug:          envBool("DEBUG", false),
		SMTP: SMTP{
			Host:     envString("SMTP_HOST", ""),
			Port:     envInt("SMTP_PORT", 587),
			Username: envString("SMTP_USERNAME", ""),
			Password: envString("SMTP_PASSWORD", ""),
			From:     envString("SMTP_FROM", "no-reply@localhost"),
			FromName: envString("SMTP_FROM_NAME", "Dracker"),
		},
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
