// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is a byte-oriented key/value store with TTLs and glob deletion.
type Cache interface {
	// Get returns ErrKeyNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching a glob pattern such as "devflow:questions:*".
	DeletePattern(ctx context.Context, pattern string) error

	Close() error

	Stats() CacheStats
}

// CacheConfig holds configuration for cache instances
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	TTL             time.Duration `json:"ttl"`
	Prefix          string        `json:"prefix"`
	Backend         CacheType     `json:"backend"`
	MaxMemory       int64         `json:"maxMemory"`
	CleanupInterval time.Duration `json:"cleanupInterval"`
	Redis           RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string        `json:"address"`
	Password     string        `json:"password"`
	Database     int           `json:"database"`
	PoolSize     int           `json:"poolSize"`
	MinIdleConns int           `json:"minIdleConns"`
	MaxConnAge   time.Duration `json:"maxConnAge"`
	// ClusterAddrs switches the client to cluster mode when it holds more than one node.
	ClusterAddrs []string `json:"clusterAddrs"`
}

// CacheStats provides cache performance statistics
type CacheStats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRatio    float64 `json:"hitRatio"`
	Keys        int64   `json:"keys"`
	MemoryUsage int64   `json:"memoryUsage"`
	Evictions   int64   `json:"evictions"`
}

func hitRatio(hits, misses int64) float64 {
	if total := hits + misses; total > 0 {
		return float64(hits) / float64(total)
	}
	return 0
}

var (
	ErrKeyNotFound           = errors.New("key not found")
	ErrCacheUnavailable      = errors.New("cache unavailable")
	ErrInvalidCacheType      = errors.New("invalid cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")
)

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled:         true,
		TTL:             time.Minute,
		Prefix:          "devflow:",
		Backend:         CacheTypeMemory,
		MaxMemory:       64 * 1024 * 1024,
		CleanupInterval: 5 * time.Minute,
		Redis: RedisConfig{
			Address:      "localhost:6379",
			PoolSize:     10,
			MinIdleConns: 5,
			MaxConnAge:   30 * time.Minute,
		},
	}
}

// CacheType represents different cache backend types
type CacheType string

const (
	CacheTypeMemory   CacheType = "memory"
	CacheTypeRedis    CacheType = "redis"
	CacheTypeDisabled CacheType = "disabled"
)

// IsValid checks if the cache type is valid
func (ct CacheType) IsValid() bool {
	switch ct {
	case CacheTypeMemory, CacheTypeRedis, CacheTypeDisabled:
		return true
	default:
		return false
	}
}
