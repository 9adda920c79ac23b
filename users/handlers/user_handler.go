// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/pkg/parser"
	"github.com/qolzam/devflow/internal/types"
	"github.com/qolzam/devflow/users/errors"
	"github.com/qolzam/devflow/users/models"
	"github.com/qolzam/devflow/users/services"
)

// UserHandler serves community, profile and collection endpoints.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func currentUser(c *fiber.Ctx) *types.UserContext {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return nil
	}
	return &user
}

// ListUsers handles GET /users?q&filter&page&pageSize
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	filter := &models.UserQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}
	page, err := h.userService.ListUsers(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// GetProfile handles GET /users/:userId
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.FromString(c.Params("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}
	profile, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(profile)
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	me, err := h.userService.GetMe(c.UserContext(), user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(me)
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	req := &models.UpdateProfileRequest{}
	if err := c.BodyParser(req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	updated, err := h.userService.UpdateProfile(types.WithUser(c.UserContext(), *user), req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(updated)
}

// ListSaved handles GET /users/me/saved?q&filter&page&pageSize
func (h *UserHandler) ListSaved(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	filter := &models.SavedQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	page, err := h.userService.ListSaved(c.UserContext(), filter, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// ToggleSaved handles POST /users/me/saved/:questionId
func (h *UserHandler) ToggleSaved(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	questionID, err := uuid.FromString(c.Params("questionId"))
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}

	result, err := h.userService.ToggleSaved(types.WithUser(c.UserContext(), *user), questionID, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}
