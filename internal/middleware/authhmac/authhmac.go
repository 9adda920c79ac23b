// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package authhmac authenticates service-to-service calls signed with a shared secret.
//
// The signature covers the canonical string
//
//	METHOD\nPATH\nQUERY\nhex(sha256(BODY))\nUID\nTIMESTAMP
//
// and travels as "sha256=<hex hmac>" in the X-Devflow-Signature header.
package authhmac

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
)

var (
	ErrMissingHeaders   = errors.New("missing HMAC headers")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrStaleTimestamp   = errors.New("timestamp outside valid window")
	ErrInvalidSignature = errors.New("HMAC signature validation failed")
)

func canonical(method, path, query string, body []byte, uid, timestamp string) string {
	bodyHash := sha256.Sum256(body)
	return fmt.Sprintf("%s\n%s\n%s\n%x\n%s\n%s", method, path, query, bodyHash, uid, timestamp)
}

// Sign returns the header value for a request. Callers of the API use it too.
func Sign(method, path, query string, body []byte, uid, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical(method, path, query, body, uid, timestamp)))
	return types.HMACPrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature and the timestamp window.
func Verify(method, path, query string, body []byte, signature, uid, timestamp, secret string, window time.Duration, now time.Time) error {
	if signature == "" || uid == "" || timestamp == "" || secret == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	drift := now.Sub(time.Unix(ts, 0))
	if drift > window || drift < -window {
		return fmt.Errorf("%w: %s", ErrStaleTimestamp, drift)
	}

	if !strings.HasPrefix(signature, types.HMACPrefix) {
		return fmt.Errorf("%w: expected %q prefix", ErrInvalidSignature, types.HMACPrefix)
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, types.HMACPrefix))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical(method, path, query, body, uid, timestamp)))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

// Authenticate validates the signed request and returns the caller it vouches for.
func Authenticate(c *fiber.Ctx, secret string, window time.Duration, now time.Time) (types.UserContext, error) {
	uid := c.Get(types.HeaderUID)
	timestamp := c.Get(types.HeaderTimestamp)

	err := Verify(
		c.Method(),
		c.Path(),
		string(c.Context().URI().QueryString()),
		c.Body(),
		c.Get(types.HeaderHMACAuthenticate),
		uid,
		timestamp,
		secret,
		window,
		now,
	)
	if err != nil {
		return types.UserContext{}, err
	}

	userID, err := uuid.FromString(uid)
	if err != nil {
		return types.UserContext{}, fmt.Errorf("invalid uid: %w", err)
	}

	createdDate, _ := strconv.ParseInt(timestamp, 10, 64)
	return types.UserContext{
		UserID:      userID,
		Username:    c.Get("username"),
		DisplayName: c.Get("displayName"),
		SystemRole:  c.Get("systemRole"),
		CreatedDate: createdDate,
	}, nil
}

// New creates a new middleware handler
func New(config Config) fiber.Handler {
	cfg := configDefault(config)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		user, err := Authenticate(c, cfg.PayloadSecret, cfg.Window, cfg.Now())
		if err != nil {
			log.Error("HMAC validation failed: %v", err)
			return cfg.Unauthorized(c)
		}

		c.Locals(cfg.UserCtxName, user)
		return c.Next()
	}
}
