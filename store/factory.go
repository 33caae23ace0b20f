package store

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/postgres"
)

// Drivers a Cacher can be built with.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// CacherConfig selects and configures a Cacher.
type CacherConfig struct {
	Driver   string
	RedisURL string
	TTL      time.Duration
}

// Dependencies captures external handles required by certain drivers.
type Dependencies struct {
	DB *postgres.DB
}

// NewCacher creates a Cacher based on the provided configuration.
// An empty Driver uses DriverMemory.
func NewCacher(cfg CacherConfig, deps Dependencies) (Cacher, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemoryCacherWithTTL(cfg.TTL), nil

	case DriverRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("%w: redis url: %s", gatekeeper.ErrBadConfig, err)
		}

		return NewRedisCacher(opts, cfg.TTL), nil

	case DriverPostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("%w: postgres driver requires database handle", gatekeeper.ErrBadConfig)
		}

		return NewGormCacher(deps.DB), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrNoDriver, driver)
	}
}
