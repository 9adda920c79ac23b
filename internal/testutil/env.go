package testutil

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/internal/types"
)

const (
	TestHMACSecret     = "test-secret"
	TestWebhookDevelop = "dev-webhook-secret"
)

// TestWebhookSecret is a svix-style secret with the whsec_ prefix.
var TestWebhookSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("devflow-test-webhook-key"))

// TestEnv is a validated platform config plus the private key matching its JWT public key.
type TestEnv struct {
	Config     *platformconfig.Config
	PrivateKey string
}

// NewTestEnv builds a config through LoadFromMap with freshly generated keys.
// The listing cache is disabled so handler tests always observe fresh reads.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	pub, priv := GenerateECDSAKeyPairPEM(t)
	cfg, err := platformconfig.LoadFromMap(map[string]string{
		"JWT_PUBLIC_KEY":             pub,
		"HMAC_SECRET":                TestHMACSecret,
		"WEBHOOK_SECRET":             TestWebhookSecret,
		"WEBHOOK_SECRET_DEVELOP":     TestWebhookDevelop,
		"CACHE_ENABLED":              "false",
		"CACHE_BACKEND":              "disabled",
		"RATE_LIMIT_VOTE_ENABLED":    "false",
		"RATE_LIMIT_WRITE_ENABLED":   "false",
		"RATE_LIMIT_WEBHOOK_ENABLED": "false",
		"SERVER_PORT":                strconv.Itoa(8080),
	})
	require.NoError(t, err)

	return &TestEnv{Config: cfg, PrivateKey: priv}
}

// Token returns a one-hour JWT for userID.
func (e *TestEnv) Token(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := GenerateTestJWT(e.PrivateKey, types.UserContext{
		UserID:      userID,
		Username:    "tester",
		DisplayName: "Test User",
		SystemRole:  types.UserRole,
		CreatedDate: time.Now().Unix(),
	}, time.Hour)
	require.NoError(t, err)
	return token
}
