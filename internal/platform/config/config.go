// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the platform configuration shared by every domain package.
type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	JWT        JWTConfig        `json:"jwt"`
	HMAC       HMACConfig       `json:"hmac"`
	Webhook    WebhookConfig    `json:"webhook"`
	App        AppConfig        `json:"app"`
	Cache      CacheConfig      `json:"cache"`
	RateLimits RateLimitsConfig `json:"rateLimits"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	GRPCPort  int    `json:"grpcPort"`
	BaseRoute string `json:"baseRoute"`
	WebDomain string `json:"webDomain"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type        string           `json:"type"`
	AutoMigrate bool             `json:"autoMigrate"`
	Postgres    PostgreSQLConfig `json:"postgres"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	Schema          string        `json:"schema"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
}

// JWTConfig holds the ES256 key used to verify user tokens.
type JWTConfig struct {
	PublicKey string `json:"publicKey"`
}

// HMACConfig holds the shared secret for service-to-service calls.
type HMACConfig struct {
	Secret string `json:"secret"`
}

// WebhookConfig holds the identity provider webhook signing secrets.
type WebhookConfig struct {
	Secret        string        `json:"secret"`
	DevelopSecret string        `json:"developSecret"`
	Tolerance     time.Duration `json:"tolerance"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name      string `json:"name"`
	WebDomain string `json:"webDomain"`
}

// CacheConfig holds listing cache configuration
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Backend         string        `json:"backend"`
	TTL             time.Duration `json:"ttl"`
	Prefix          string        `json:"prefix"`
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
	ClusterAddrs []string      `json:"clusterAddrs"`
}

// RateLimitConfig holds rate limiting configuration for a class of endpoints
type RateLimitConfig struct {
	Enabled  bool          `json:"enabled"`
	Max      int           `json:"max"`
	Duration time.Duration `json:"duration"`
}

// RateLimitsConfig holds rate limiting configuration for all endpoint classes
type RateLimitsConfig struct {
	Vote    RateLimitConfig `json:"vote"`
	Write   RateLimitConfig `json:"write"`
	Webhook RateLimitConfig `json:"webhook"`
}

var validDbTypes = []string{"postgresql"}
var validCacheBackends = []string{"memory", "redis", "disabled"}

// LoadFromEnv loads configuration from the environment.
// Precedence: explicit environment variables, then values from a .env file, then defaults.
func LoadFromEnv() (*Config, error) {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		// godotenv.Load never overrides variables that are already set.
		if loadErr = godotenv.Load(envPath); loadErr == nil {
			break
		}
	}
	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	return build(os.LookupEnv)
}

// LoadFromMap loads configuration from an in-memory map.
// Tests use it to exercise configuration logic without touching the process environment.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return build(func(key string) (string, bool) {
		value, ok := envMap[key]
		return value, ok
	})
}

type lookupFunc func(key string) (string, bool)

func build(lookup lookupFunc) (*Config, error) {
	env := source{lookup: lookup}

	webDomain := env.get("WEB_DOMAIN", "http://localhost:3000")

	config := &Config{
		Server: ServerConfig{
			Host:      env.get("HOST", "localhost"),
			Port:      env.getInt("SERVER_PORT", 8080),
			GRPCPort:  env.getInt("GRPC_PORT", 0),
			BaseRoute: env.get("BASE_ROUTE", ""),
			WebDomain: webDomain,
			Debug:     env.getBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Type:        env.get("DB_TYPE", "postgresql"),
			AutoMigrate: env.getBool("AUTO_MIGRATE", false),
			Postgres: PostgreSQLConfig{
				Host:            env.get("POSTGRES_HOST", "localhost"),
				Port:            env.getInt("POSTGRES_PORT", 5432),
				Username:        env.get("POSTGRES_USERNAME", ""),
				Password:        env.get("POSTGRES_PASSWORD", ""),
				Database:        env.get("POSTGRES_DATABASE", "devflow"),
				Schema:          env.get("POSTGRES_SCHEMA", ""),
				SSLMode:         env.get("POSTGRES_SSL_MODE", "disable"),
				MaxOpenConns:    env.getInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    env.getInt("POSTGRES_MAX_IDLE_CONNS", 25),
				ConnMaxLifetime: time.Duration(env.getInt("POSTGRES_CONN_MAX_LIFETIME", 300)) * time.Second,
			},
		},
		JWT: JWTConfig{
			PublicKey: env.get("JWT_PUBLIC_KEY", ""),
		},
		HMAC: HMACConfig{
			Secret: env.get("HMAC_SECRET", ""),
		},
		Webhook: WebhookConfig{
			Secret:        env.get("WEBHOOK_SECRET", ""),
			DevelopSecret: env.get("WEBHOOK_SECRET_DEVELOP", ""),
			Tolerance:     env.getDuration("WEBHOOK_TOLERANCE", 5*time.Minute),
		},
		App: AppConfig{
			Name:      env.get("APP_NAME", "DevFlow"),
			WebDomain: webDomain,
		},
		Cache: CacheConfig{
			Enabled:         env.getBool("CACHE_ENABLED", true),
			Backend:         strings.ToLower(env.get("CACHE_BACKEND", "memory")),
			TTL:             env.getDuration("CACHE_TTL", 1*time.Minute),
			Prefix:          env.get("CACHE_PREFIX", "devflow:"),
			MaxMemory:       env.getInt64("CACHE_MAX_MEMORY", 64*1024*1024),
			CleanupInterval: env.getDuration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
			Redis: RedisConfig{
				Address:      env.get("REDIS_ADDRESS", "localhost:6379"),
				Password:     env.get("REDIS_PASSWORD", ""),
				Database:     env.getInt("REDIS_DATABASE", 0),
				PoolSize:     env.getInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: env.getInt("REDIS_MIN_IDLE_CONNS", 5),
				MaxConnAge:   time.Duration(env.getInt("REDIS_MAX_CONN_AGE", 300)) * time.Second,
				ClusterAddrs: env.getList("REDIS_CLUSTER_ADDRESSES"),
			},
		},
		RateLimits: RateLimitsConfig{
			Vote: RateLimitConfig{
				Enabled:  env.getBool("RATE_LIMIT_VOTE_ENABLED", true),
				Max:      env.getInt("RATE_LIMIT_VOTE_MAX", 60),
				Duration: env.getDuration("RATE_LIMIT_VOTE_DURATION", 1*time.Minute),
			},
			Write: RateLimitConfig{
				Enabled:  env.getBool("RATE_LIMIT_WRITE_ENABLED", true),
				Max:      env.getInt("RATE_LIMIT_WRITE_MAX", 20),
				Duration: env.getDuration("RATE_LIMIT_WRITE_DURATION", 1*time.Minute),
			},
			Webhook: RateLimitConfig{
				Enabled:  env.getBool("RATE_LIMIT_WEBHOOK_ENABLED", true),
				Max:      env.getInt("RATE_LIMIT_WEBHOOK_MAX", 120),
				Duration: env.getDuration("RATE_LIMIT_WEBHOOK_DURATION", 1*time.Minute),
			},
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.JWT.PublicKey) == "" {
		errors = append(errors, "JWT_PUBLIC_KEY is required")
	}
	if strings.TrimSpace(c.HMAC.Secret) == "" {
		errors = append(errors, "HMAC_SECRET is required")
	}
	if strings.TrimSpace(c.Webhook.Secret) == "" {
		errors = append(errors, "WEBHOOK_SECRET is required")
	}
	if !contains(validDbTypes, c.Database.Type) {
		errors = append(errors, fmt.Sprintf("DB_TYPE must be one of: %s", strings.Join(validDbTypes, ", ")))
	}
	if !contains(validCacheBackends, c.Cache.Backend) {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: %s", strings.Join(validCacheBackends, ", ")))
	}
	if c.Server.Port <= 0 {
		errors = append(errors, "SERVER_PORT must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// source reads typed values through a lookup function, falling back to defaults
// when a key is missing, empty, or unparsable.
type source struct {
	lookup lookupFunc
}

func (s source) get(key, defaultValue string) string {
	if value, ok := s.lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func (s source) getInt(key string, defaultValue int) int {
	if value, ok := s.lookup(key); ok && value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getInt64(key string, defaultValue int64) int64 {
	if value, ok := s.lookup(key); ok && value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getBool(key string, defaultValue bool) bool {
	if value, ok := s.lookup(key); ok && value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (s source) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := s.lookup(key); ok && value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func (s source) getList(key string) []string {
	value, ok := s.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
