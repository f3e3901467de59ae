package repository

import (
	"context"
	"fmt"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Settings selects and configures a backend.
type Settings struct {
	Driver        string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the KeyValueStore named by s.Driver.
func Open(ctx context.Context, s Settings) (KeyValueStore, error) {
	switch s.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPostgres:
		return OpenGorm(ctx, s.Driver, s.DSN)
	case DriverRedis:
		return OpenRedis(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB, WithKeyPrefix(s.RedisPrefix))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, s.Driver)
	}
}
