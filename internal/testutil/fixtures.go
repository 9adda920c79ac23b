package testutil

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"

	"github.com/qolzam/devflow/internal/database/postgres"
)

// InsertUser writes a bare user row and returns its id.
func InsertUser(t *testing.T, client *postgres.Client, name string) uuid.UUID {
	t.Helper()

	id := uuid.Must(uuid.NewV4())
	_, err := client.DB().ExecContext(context.Background(),
		`INSERT INTO users (id, clerk_id, name, username, email) VALUES ($1, $2, $3, $4, $5)`,
		id, "user_"+id.String(), name, SanitizeTestName(name), SanitizeTestName(name)+"@example.com",
	)
	if err != nil {
		t.Fatalf("failed to insert user %s: %v", name, err)
	}
	return id
}

// Reputation reads a user's current reputation.
func Reputation(t *testing.T, client *postgres.Client, userID uuid.UUID) int {
	t.Helper()

	var reputation int
	if err := client.DB().GetContext(context.Background(), &reputation, `SELECT reputation FROM users WHERE id = $1`, userID); err != nil {
		t.Fatalf("failed to read reputation for %s: %v", userID, err)
	}
	return reputation
}

// Count runs a COUNT(*) style query that returns a single integer.
func Count(t *testing.T, client *postgres.Client, query string, args ...interface{}) int {
	t.Helper()

	var n int
	if err := client.DB().GetContext(context.Background(), &n, query, args...); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
