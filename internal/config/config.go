// Package config holds the .env loading conventions every cmd/* binary
// shares, generalized from prover-register/internal/config.Config's own
// LoadEnv/GetEnv pair (that file's Config/ValidateConfig are specific to
// prover-register's single verifier-registration flow, so only the
// env-loading half travels here).
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads path into the process environment if it exists, the
// same "missing .env is fine" behavior LoadEnv uses — every binary in
// this module is expected to run from flags/real env vars in production
// and a .env file only in local development.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		return godotenv.Load(path)
	}
	return nil
}

// GetEnv reads key from the environment, falling back to defaultValue.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
