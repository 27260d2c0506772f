package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL bounds session retention; Redis expires the keys
	// itself so no sweep is needed with this backend
	SessionTTL time.Duration

	// RoomTTL is a safety net against rooms leaked by a crashed
	// process sharing the Redis instance; live rooms are re-saved on
	// every mutation, refreshing the TTL
	RoomTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   24 * time.Hour,
		RoomTTL:      24 * time.Hour,
	}
}
