package testutil

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/middleware/authhmac"
	"github.com/qolzam/devflow/internal/types"
)

// HTTPHelper drives a fiber app in tests and fails the test on transport errors.
type HTTPHelper struct {
	t   *testing.T
	app *fiber.App
}

// NewHTTPHelper creates a new test helper for a given Fiber app.
func NewHTTPHelper(t *testing.T, app *fiber.App) *HTTPHelper {
	require.NotNil(t, app, "Fiber app provided to HTTPHelper cannot be nil")
	return &HTTPHelper{t: t, app: app}
}

// Request represents a test request under construction.
type Request struct {
	helper    *HTTPHelper
	method    string
	path      string
	bodyBytes []byte
	headers   http.Header
}

// NewRequest begins building a request. Non-byte bodies are marshaled to JSON.
func (h *HTTPHelper) NewRequest(method, path string, body interface{}) *Request {
	var bodyBytes []byte
	if body != nil {
		switch b := body.(type) {
		case []byte:
			bodyBytes = b
		case string:
			bodyBytes = []byte(b)
		default:
			jsonBytes, err := json.Marshal(body)
			require.NoError(h.t, err, "Failed to marshal request body to JSON")
			bodyBytes = jsonBytes
		}
	}

	req := &Request{
		helper:    h,
		method:    method,
		path:      path,
		bodyBytes: bodyBytes,
		headers:   make(http.Header),
	}
	if body != nil {
		req.WithHeader(types.HeaderContentType, "application/json")
	}
	return req
}

// WithHeader adds a header to the request.
func (r *Request) WithHeader(key, value string) *Request {
	r.headers.Add(key, value)
	return r
}

// WithHMACAuth signs the request the way a trusted service would.
func (r *Request) WithHMACAuth(secret, uid string) *Request {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	path, query := r.path, ""
	if i := strings.Index(path, "?"); i >= 0 {
		path, query = path[:i], path[i+1:]
	}

	body := r.bodyBytes
	if body == nil {
		body = []byte{}
	}

	r.WithHeader(types.HeaderHMACAuthenticate, authhmac.Sign(r.method, path, query, body, uid, timestamp, secret))
	r.WithHeader(types.HeaderUID, uid)
	r.WithHeader(types.HeaderTimestamp, timestamp)
	return r
}

// WithUserJWT sends the token as a bearer credential.
func (r *Request) WithUserJWT(token string) *Request {
	return r.WithHeader(types.HeaderAuthorization, types.BearerPrefix+token)
}

// Send executes the request and returns the response.
func (r *Request) Send() *http.Response {
	req := httptest.NewRequest(r.method, r.path, bytes.NewReader(r.bodyBytes))
	req.Header = r.headers

	resp, err := r.helper.app.Test(req, int(10*time.Second.Milliseconds()))
	require.NoError(r.helper.t, err, "app.Test should not return an error")
	require.NotNil(r.helper.t, resp, "app.Test response should not be nil")
	return resp
}

// SendJSON executes the request, asserts the status and decodes the body into out.
func (r *Request) SendJSON(status int, out interface{}) {
	resp := r.Send()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(r.helper.t, err)
	require.Equal(r.helper.t, status, resp.StatusCode, "unexpected status, body: %s", string(body))

	if out != nil {
		require.NoError(r.helper.t, json.Unmarshal(body, out), "body: %s", string(body))
	}
}

// GenerateECDSAKeyPairPEM returns a fresh P-256 key pair as (publicKeyPEM, privateKeyPEM).
func GenerateECDSAKeyPairPEM(t *testing.T) (string, string) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err, "Failed to generate ECDSA private key")

	privBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err, "Failed to marshal ECDSA private key")
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})

	pubBytes, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err, "Failed to marshal ECDSA public key")
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	return string(pubPEM), string(privPEM)
}

// GenerateTestJWT signs an ES256 token carrying userCtx under the "claim" key.
func GenerateTestJWT(privateKeyPEM string, userCtx types.UserContext, ttl time.Duration) (string, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("failed to parse EC private key: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"claim": map[string]interface{}{
			types.HeaderUID: userCtx.UserID.String(),
			"username":      userCtx.Username,
			"displayName":   userCtx.DisplayName,
			"avatar":        userCtx.Avatar,
			"role":          userCtx.SystemRole,
			"createdDate":   userCtx.CreatedDate,
		},
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to generate test JWT: %w", err)
	}
	return token, nil
}
