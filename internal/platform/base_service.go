// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/qolzam/devflow/internal/cache"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/database/migrations"
	"github.com/qolzam/devflow/internal/database/postgres"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/internal/pkg/log"
)

// BaseService owns the process-wide resources every domain package is built from.
type BaseService struct {
	Config *platformconfig.Config
	DB     *postgres.Client
	// Cache is nil when caching is disabled.
	Cache       cache.Cache
	cacheConfig *cache.CacheConfig
}

// NewBaseService connects to PostgreSQL, optionally applies migrations, and opens the cache backend.
func NewBaseService(ctx context.Context, cfg *platformconfig.Config) (*BaseService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("platform configuration is required")
	}
	if cfg.Database.Type != dbi.DatabaseTypePostgreSQL {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	pgCfg := postgres.ConfigFromPlatform(cfg.Database.Postgres)
	client, err := postgres.NewClient(ctx, pgCfg, pgCfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, client.DB()); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("database migrations applied")
	}

	cacheCfg := cache.FromPlatform(cfg.Cache)
	backend, err := cache.NewWithFallback(ctx, cacheCfg)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &BaseService{
		Config:      cfg,
		DB:          client,
		Cache:       backend,
		cacheConfig: cacheCfg,
	}, nil
}

// NewBaseServiceWithClient wraps an existing client without a cache. Tests use it.
func NewBaseServiceWithClient(cfg *platformconfig.Config, client *postgres.Client) *BaseService {
	return &BaseService{
		Config:      cfg,
		DB:          client,
		cacheConfig: cache.FromPlatform(cfg.Cache),
	}
}

// ListingCache returns the listing cache for a domain, e.g. "questions".
func (b *BaseService) ListingCache(domain string) *cache.ListingCache {
	return cache.NewListingCache(b.Cache, b.cacheConfig.Namespace(domain), b.cacheConfig.TTL)
}

// HealthCheck pings the database.
func (b *BaseService) HealthCheck(ctx context.Context) error {
	if b.DB == nil {
		return errors.New("database client not initialized")
	}
	return b.DB.HealthCheck(ctx)
}

// Close releases the cache and the database pool.
func (b *BaseService) Close() error {
	var errs []error
	if b.Cache != nil {
		if err := b.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.DB != nil {
		if err := b.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
