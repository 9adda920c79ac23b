// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/interactions/errors"
	"github.com/qolzam/devflow/interactions/models"
	"github.com/qolzam/devflow/interactions/services"
	"github.com/qolzam/devflow/internal/pkg/parser"
)

// InteractionHandler serves activity derived endpoints.
type InteractionHandler struct {
	interactionService services.InteractionService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// TopTags handles GET /users/:userId/top-tags?limit
func (h *InteractionHandler) TopTags(c *fiber.Ctx) error {
	userID, err := uuid.FromString(c.Params("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}
	query := &models.TopTagsQuery{}
	if err := parser.Query(c, query); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	tags, err := h.interactionService.TopTags(c.UserContext(), userID, query)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(tags)
}
