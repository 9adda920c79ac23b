package webhooksig

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("super-secret-signing-key"))

func TestSignVerify(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"type":"user.created"}`)
	ts := strconv.FormatInt(now.Unix(), 10)

	sig, err := Sign(testSecret, "msg_1", now, body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, "v1,"))

	assert.NoError(t, Verify(testSecret, "msg_1", ts, sig, body, 5*time.Minute, now))
	assert.NoError(t, Verify(testSecret, "msg_1", ts, "v1,bm9wZQ== "+sig, body, 5*time.Minute, now), "any matching entry is accepted")

	assert.ErrorIs(t, Verify(testSecret, "msg_2", ts, sig, body, 5*time.Minute, now), ErrNoMatch)
	assert.ErrorIs(t, Verify(testSecret, "msg_1", ts, sig, []byte(`{}`), 5*time.Minute, now), ErrNoMatch)
	assert.ErrorIs(t, Verify(testSecret, "msg_1", ts, sig, body, 5*time.Minute, now.Add(10*time.Minute)), ErrStaleTimestamp)
	assert.ErrorIs(t, Verify(testSecret, "msg_1", "yesterday", sig, body, 5*time.Minute, now), ErrInvalidTimestamp)
	assert.ErrorIs(t, Verify(testSecret, "", ts, sig, body, 5*time.Minute, now), ErrMissingHeaders)
	assert.ErrorIs(t, Verify("", "msg_1", ts, sig, body, 5*time.Minute, now), ErrInvalidSecret)
	assert.ErrorIs(t, Verify("whsec_%%%", "msg_1", ts, sig, body, 5*time.Minute, now), ErrInvalidSecret)
}

func TestSign_RawSecret(t *testing.T) {
	now := time.Now()
	sig, err := Sign("plain", "msg", now, nil)
	require.NoError(t, err)
	assert.NoError(t, Verify("plain", "msg", strconv.FormatInt(now.Unix(), 10), sig, nil, time.Minute, now))
}

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/identity", New(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func webhookRequest(t *testing.T, secret string, body string, env string) *http.Request {
	t.Helper()
	now := time.Now()
	sig, err := Sign(secret, "msg_1", now, []byte(body))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", strings.NewReader(body))
	req.Header.Set(HeaderID, "msg_1")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	req.Header.Set(HeaderSignature, sig)
	if env != "" {
		req.Header.Set(HeaderEnvironment, env)
	}
	return req
}

func TestMiddleware(t *testing.T) {
	cfg := Config{Secret: testSecret, DevelopSecret: "dev-secret"}

	t.Run("ValidSignature", func(t *testing.T) {
		resp, err := newApp(cfg).Test(webhookRequest(t, testSecret, `{"type":"user.created"}`, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		resp, err := newApp(cfg).Test(webhookRequest(t, "other", `{}`, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("DevelopmentSecret", func(t *testing.T) {
		resp, err := newApp(cfg).Test(webhookRequest(t, "dev-secret", `{}`, "development"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = newApp(cfg).Test(webhookRequest(t, "dev-secret", `{}`, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingHeaders", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", strings.NewReader(`{}`))
		resp, err := newApp(cfg).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
