package platform

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/cache"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
)

func TestNewBaseService_RequiresConfig(t *testing.T) {
	_, err := NewBaseService(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewBaseService_RejectsUnsupportedDatabase(t *testing.T) {
	_, err := NewBaseService(context.Background(), &platformconfig.Config{
		Database: platformconfig.DatabaseConfig{Type: "mongodb"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestListingCache_UsesPrefixedNamespace(t *testing.T) {
	cfg := &platformconfig.Config{Cache: platformconfig.CacheConfig{Enabled: true, Backend: "memory", Prefix: "df:", TTL: time.Minute}}
	base := NewBaseServiceWithClient(cfg, nil)

	backend := cache.NewMemoryCache(cache.DefaultCacheConfig())
	defer backend.Close()
	base.Cache = backend

	listing := base.ListingCache("questions")
	require.True(t, listing.Enabled())
	assert.Contains(t, listing.Key("list", nil), "df:questions:list:")
}

func TestHealthCheck_WithoutClient(t *testing.T) {
	base := NewBaseServiceWithClient(&platformconfig.Config{}, nil)
	assert.Error(t, base.HealthCheck(context.Background()))
	assert.NoError(t, base.Close())
}
