// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"context"
	"fmt"
	"strings"

	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/internal/pkg/log"
)

// FromPlatform maps the platform cache section onto a CacheConfig.
func FromPlatform(pc platformconfig.CacheConfig) *CacheConfig {
	cfg := DefaultCacheConfig()
	cfg.Enabled = pc.Enabled
	cfg.Backend = CacheType(strings.ToLower(pc.Backend))
	if pc.TTL > 0 {
		cfg.TTL = pc.TTL
	}
	if pc.Prefix != "" {
		cfg.Prefix = pc.Prefix
	}
	if pc.MaxMemory > 0 {
		cfg.MaxMemory = pc.MaxMemory
	}
	if pc.CleanupInterval > 0 {
		cfg.CleanupInterval = pc.CleanupInterval
	}
	cfg.Redis = RedisConfig{
		Address:      pc.Redis.Address,
		Password:     pc.Redis.Password,
		Database:     pc.Redis.Database,
		PoolSize:     pc.Redis.PoolSize,
		MinIdleConns: pc.Redis.MinIdleConns,
		MaxConnAge:   pc.Redis.MaxConnAge,
		ClusterAddrs: pc.Redis.ClusterAddrs,
	}
	if !cfg.Enabled {
		cfg.Backend = CacheTypeDisabled
	}
	return cfg
}

// New creates the configured backend. A disabled cache yields a nil Cache and no error.
func New(ctx context.Context, config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Backend {
	case CacheTypeDisabled:
		return nil, nil
	case CacheTypeMemory, "":
		return NewMemoryCache(config), nil
	case CacheTypeRedis:
		return NewRedisCache(ctx, config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheType, config.Backend)
	}
}

// NewWithFallback behaves like New but degrades to the in-memory backend when Redis is unreachable.
func NewWithFallback(ctx context.Context, config *CacheConfig) (Cache, error) {
	backend, err := New(ctx, config)
	if err == nil {
		return backend, nil
	}
	if config != nil && config.Backend == CacheTypeRedis {
		log.Warn("redis cache unavailable, falling back to memory: %v", err)
		return NewMemoryCache(config), nil
	}
	return nil, err
}

// Namespace returns the key namespace for a domain, e.g. "devflow:questions".
func (c *CacheConfig) Namespace(domain string) string {
	return c.Prefix + domain
}
