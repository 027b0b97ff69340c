package config

import (
	"io"
	"time"
)

// Config defines the read-only view over runtime configuration.
//
// Implementations return the zero value for missing keys or values that cannot
// be converted; callers that need a non-zero default apply it themselves.
type Config interface {
	io.Closer

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetInt returns the value for key as an int.
	GetInt(key string) int

	// GetInt64 returns the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 returns the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond returns the integer value for key interpreted as seconds.
	GetSecond(key string) time.Duration

	// GetMillisecond returns the integer value for key interpreted as milliseconds.
	GetMillisecond(key string) time.Duration

	// GetArray returns the value for key as a slice of strings.
	// Values may be stored as a sequence or as <element1>,<element2>,...
	GetArray(key string) []string
}
