// Package config provides shared configuration utilities and the tunable
// gameplay parameters.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Environment variable names.
const (
	EnvTuning     = "STACKUP_TUNING"
	EnvDatabase   = "STACKUP_DB"
	EnvMute       = "STACKUP_MUTE"
	EnvSSHHost    = "SSH_HOST"
	EnvSSHPort    = "SSH_PORT"
	EnvSSHHostKey = "SSH_HOST_KEY"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by
// the key, or fallback if it is unset or not a number.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvBool returns the boolean value of the environment variable named by
// the key, or fallback if it is unset or unparsable.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// DefaultDatabasePath returns the best-score database location,
// honouring STACKUP_DB and falling back to ~/.local/share/stackup/best.db.
func DefaultDatabasePath() string {
	if path := GetEnv(EnvDatabase, ""); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "stackup.db")
	}
	return filepath.Join(home, ".local", "share", "stackup", "best.db")
}
