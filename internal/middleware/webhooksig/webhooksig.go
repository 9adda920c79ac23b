// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package webhooksig verifies svix-style signatures on identity provider webhooks.
//
// The signed content is "<svix-id>.<svix-timestamp>.<body>". The svix-signature
// header holds one or more space separated "v1,<base64 hmac-sha256>" entries and
// the request is accepted when any of them matches.
package webhooksig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/internal/pkg/log"
)

const (
	HeaderID          = "svix-id"
	HeaderTimestamp   = "svix-timestamp"
	HeaderSignature   = "svix-signature"
	HeaderEnvironment = "environment"

	secretPrefix  = "whsec_"
	versionPrefix = "v1,"
)

var (
	ErrMissingHeaders   = errors.New("missing svix headers")
	ErrInvalidTimestamp = errors.New("invalid svix timestamp")
	ErrStaleTimestamp   = errors.New("svix timestamp outside tolerance")
	ErrNoMatch          = errors.New("no matching signature found")
	ErrInvalidSecret    = errors.New("invalid webhook secret")
)

// Config defines the config for the webhook signature middleware.
type Config struct {
	Secret string
	// DevelopSecret is used when the request carries "environment: development".
	DevelopSecret string
	Tolerance     time.Duration
	Now           func() time.Time
}

func decodeSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrInvalidSecret
	}
	if strings.HasPrefix(secret, secretPrefix) {
		key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
		}
		return key, nil
	}
	return []byte(secret), nil
}

func compute(key []byte, id, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// Sign produces a svix-signature header value.
func Sign(secret, id string, timestamp time.Time, body []byte) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	ts := strconv.FormatInt(timestamp.Unix(), 10)
	return versionPrefix + base64.StdEncoding.EncodeToString(compute(key, id, ts, body)), nil
}

// Verify checks the headers against body using secret.
func Verify(secret, id, timestamp, signatures string, body []byte, tolerance time.Duration, now time.Time) error {
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return err
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	if tolerance > 0 {
		drift := now.Sub(time.Unix(ts, 0))
		if drift > tolerance || drift < -tolerance {
			return ErrStaleTimestamp
		}
	}

	expected := compute(key, id, timestamp, body)
	for _, candidate := range strings.Fields(signatures) {
		if !strings.HasPrefix(candidate, versionPrefix) {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(candidate, versionPrefix))
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return ErrNoMatch
}

// New rejects webhook calls whose signature does not verify with 400.
func New(cfg Config) fiber.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 5 * time.Minute
	}

	return func(c *fiber.Ctx) error {
		secret := cfg.Secret
		if c.Get(HeaderEnvironment) == "development" && cfg.DevelopSecret != "" {
			secret = cfg.DevelopSecret
		}

		err := Verify(
			secret,
			c.Get(HeaderID),
			c.Get(HeaderTimestamp),
			c.Get(HeaderSignature),
			c.Body(),
			cfg.Tolerance,
			cfg.Now(),
		)
		if err != nil {
			log.Warn("webhook signature rejected: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"code":    "INVALID_SIGNATURE",
				"message": "Webhook signature verification failed",
			})
		}
		return c.Next()
	}
}
