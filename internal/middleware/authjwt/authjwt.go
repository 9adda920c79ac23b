// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package authjwt

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/types"
)

// DefaultClaimKey is the JWT claim holding the user profile map.
const DefaultClaimKey = "claim"

// AccessTokenCookie is read when no Authorization header is present.
const AccessTokenCookie = "access_token"

// Config defines the config for the JWT middleware.
type Config struct {
	// The EC public key for validating ES256 tokens.
	PublicKey string
	// The claim key where the UserContext is stored.
	ClaimKey string
	// The context key to store the UserContext.
	UserCtxName string
}

// Validator verifies ES256 tokens against a parsed public key.
type Validator struct {
	key      *ecdsa.PublicKey
	claimKey string
}

// NewValidator parses the PEM key once.
func NewValidator(publicKey, claimKey string) (*Validator, error) {
	ecPublicKey, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC public key: %w", err)
	}
	if claimKey == "" {
		claimKey = DefaultClaimKey
	}
	return &Validator{key: ecPublicKey, claimKey: claimKey}, nil
}

// Validate checks the signature, expiry and claim shape and returns the caller.
// It never writes to a response.
func (v *Validator) Validate(tokenString string) (types.UserContext, error) {
	var userCtx types.UserContext

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return userCtx, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return userCtx, errors.New("invalid token")
	}

	claimData, ok := claims[v.claimKey].(map[string]interface{})
	if !ok {
		return userCtx, errors.New("invalid token claim format")
	}

	userCtx, err = mapToUserContext(claimData)
	if err != nil {
		return userCtx, fmt.Errorf("invalid user context in token: %w", err)
	}
	return userCtx, nil
}

// ValidateToken is a one-shot helper for callers that hold only the PEM key.
func ValidateToken(tokenString, publicKey, claimKey string) (types.UserContext, error) {
	v, err := NewValidator(publicKey, claimKey)
	if err != nil {
		return types.UserContext{}, err
	}
	return v.Validate(tokenString)
}

// TokenFromRequest returns the bearer token or the access_token cookie, whichever is present.
func TokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get(types.HeaderAuthorization)
	if strings.HasPrefix(authHeader, types.BearerPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, types.BearerPrefix)); token != "" {
			return token
		}
	}
	return c.Cookies(AccessTokenCookie)
}

// New creates a new middleware handler.
func New(cfg Config) fiber.Handler {
	validator, err := NewValidator(cfg.PublicKey, cfg.ClaimKey)
	if err != nil {
		panic(err.Error())
	}
	if cfg.UserCtxName == "" {
		cfg.UserCtxName = types.UserCtxName
	}

	return func(c *fiber.Ctx) error {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid JWT",
			})
		}

		userCtx, err := validator.Validate(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token",
				"details": err.Error(),
			})
		}

		c.Locals(cfg.UserCtxName, userCtx)
		return c.Next()
	}
}

func mapToUserContext(claimData map[string]interface{}) (types.UserContext, error) {
	var userCtx types.UserContext

	userIDStr, ok := claimData[types.HeaderUID].(string)
	if !ok {
		return userCtx, errors.New("missing or invalid uid in claim")
	}
	userID, err := uuid.FromString(userIDStr)
	if err != nil {
		return userCtx, fmt.Errorf("invalid user ID: %v", err)
	}
	userCtx.UserID = userID

	if username, ok := claimData["username"].(string); ok {
		userCtx.Username = username
	}
	if displayName, ok := claimData["displayName"].(string); ok {
		userCtx.DisplayName = displayName
	}
	if avatar, ok := claimData["avatar"].(string); ok {
		userCtx.Avatar = avatar
	}
	if systemRole, ok := claimData["role"].(string); ok {
		userCtx.SystemRole = systemRole
	}
	if createdDate, ok := claimData["createdDate"].(float64); ok {
		userCtx.CreatedDate = int64(createdDate)
	}

	return userCtx, nil
}
