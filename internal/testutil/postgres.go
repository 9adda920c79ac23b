package testutil

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/subosito/gotenv"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/database/migrations"
	"github.com/qolzam/devflow/internal/database/postgres"
)

var (
	envOnce sync.Once

	containerOnce sync.Once
	containerCfg  *dbi.PostgreSQLConfig
	containerErr  error
)

// loadTestEnv reads the first .env.test found walking up from the package
// directory. Variables already present in the environment win.
func loadTestEnv() {
	envOnce.Do(func() {
		for _, path := range []string{".env.test", "../.env.test", "../../.env.test", "../../../.env.test"} {
			if err := gotenv.Load(path); err == nil {
				return
			}
		}
	})
}

// ShouldRunDatabaseTests checks if database tests should be executed.
func ShouldRunDatabaseTests() bool {
	loadTestEnv()
	return os.Getenv("RUN_DB_TESTS") == "1"
}

func getEnv(key, defVal string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defVal
}

// PostgresConfig returns connection settings for the test server. With
// TESTCONTAINERS=1 a throwaway postgres:16-alpine container is started once per
// test binary; otherwise POSTGRES_* variables point at an existing server.
func PostgresConfig(t *testing.T) *dbi.PostgreSQLConfig {
	t.Helper()
	loadTestEnv()

	if os.Getenv("TESTCONTAINERS") == "1" {
		containerOnce.Do(func() {
			containerCfg, containerErr = startContainer()
		})
		if containerErr != nil {
			t.Fatalf("failed to start postgres container: %v", containerErr)
		}
		cfg := *containerCfg
		return &cfg
	}

	port, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		t.Fatalf("invalid POSTGRES_PORT: %v", err)
	}
	return &dbi.PostgreSQLConfig{
		Host:           getEnv("POSTGRES_HOST", "127.0.0.1"),
		Port:           port,
		Username:       getEnv("POSTGRES_USERNAME", "postgres"),
		Password:       getEnv("POSTGRES_PASSWORD", "postgres"),
		Database:       getEnv("POSTGRES_DATABASE", "devflow_test"),
		SSLMode:        "disable",
		ConnectTimeout: 10,
	}
}

func startContainer() (*dbi.PostgreSQLConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("devflow_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		if container != nil {
			_ = testcontainers.TerminateContainer(container)
		}
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}

	// The reaper container removes the database when the test binary exits.
	return &dbi.PostgreSQLConfig{
		Host:           host,
		Port:           mapped.Int(),
		Username:       "postgres",
		Password:       "postgres",
		Database:       "devflow_test",
		SSLMode:        "disable",
		ConnectTimeout: 10,
	}, nil
}

// NewIsolatedDB returns a client bound to a fresh schema with every migration
// applied. The schema is dropped when the test ends.
func NewIsolatedDB(t *testing.T) *postgres.Client {
	t.Helper()

	if !ShouldRunDatabaseTests() {
		t.Skip("RUN_DB_TESTS not set, skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	base := PostgresConfig(t)
	admin, err := postgres.NewClient(ctx, base, base.Database)
	if err != nil {
		t.Fatalf("failed to connect to PostgreSQL: %v", err)
	}

	suffix := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:16]
	schema := fmt.Sprintf("test_%s_%s", SanitizeTestName(t.Name()), suffix)
	if _, err := admin.DB().ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA "%s"`, schema)); err != nil {
		admin.Close()
		t.Fatalf("failed to create schema %s: %v", schema, err)
	}

	isolated := *base
	isolated.Schema = schema
	client, err := postgres.NewClient(ctx, &isolated, isolated.Database)
	if err != nil {
		admin.Close()
		t.Fatalf("failed to connect to schema %s: %v", schema, err)
	}

	if err := migrations.Apply(ctx, client.DB()); err != nil {
		client.Close()
		admin.Close()
		t.Fatalf("failed to migrate schema %s: %v", schema, err)
	}

	t.Cleanup(func() {
		client.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		if _, err := admin.DB().ExecContext(dropCtx, fmt.Sprintf(`DROP SCHEMA IF EXISTS "%s" CASCADE`, schema)); err != nil {
			t.Logf("failed to drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	return client
}

var nonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

// SanitizeTestName turns a test name into a schema-safe identifier fragment.
// PostgreSQL truncates identifiers at 63 bytes; the "test_" prefix and the
// 16-char suffix leave 41 for the name.
func SanitizeTestName(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	name = nonIdent.ReplaceAllString(name, "")

	const maxTestNameLength = 41
	if len(name) > maxTestNameLength {
		name = name[:maxTestNameLength]
	}
	return name
}
