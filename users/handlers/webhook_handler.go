// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/users/errors"
	"github.com/qolzam/devflow/users/models"
	"github.com/qolzam/devflow/users/services"
)

// WebhookHandler applies identity provider events. The signature has been
// checked by webhooksig before the handler runs.
type WebhookHandler struct {
	userService services.UserService
}

// NewWebhookHandler creates a new identity webhook handler
func NewWebhookHandler(userService services.UserService) *WebhookHandler {
	return &WebhookHandler{userService: userService}
}

// HandleIdentityEvent handles POST /webhooks/identity
func (h *WebhookHandler) HandleIdentityEvent(c *fiber.Ctx) error {
	var event models.IdentityEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid event payload")
	}
	ctx := c.UserContext()
	log.InfoWithContext(ctx, "identity event %s for %s", event.Type, event.Data.ID)

	switch event.Type {
	case models.EventUserCreated:
		user, err := h.userService.CreateFromIdentity(ctx, event.Data.Identity())
		if err != nil {
			return errors.HandleServiceError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(models.WebhookResponse{Message: "OK", User: user})
	case models.EventUserUpdated:
		user, err := h.userService.UpdateFromIdentity(ctx, event.Data.Identity())
		if err != nil {
			return errors.HandleServiceError(c, err)
		}
		return c.Status(http.StatusOK).JSON(models.WebhookResponse{Message: "OK", User: user})
	case models.EventUserDeleted:
		if err := h.userService.DeleteFromIdentity(ctx, event.Data.ID); err != nil {
			return errors.HandleServiceError(c, err)
		}
		return c.Status(http.StatusOK).JSON(models.WebhookResponse{Message: "OK"})
	default:
		return c.Status(http.StatusOK).JSON(models.WebhookResponse{Message: "Event type not handled"})
	}
}
