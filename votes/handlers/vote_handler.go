// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/types"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/votes/errors"
	"github.com/qolzam/devflow/votes/models"
	"github.com/qolzam/devflow/votes/services"
)

// VoteHandler handles all vote-related HTTP requests
type VoteHandler struct {
	voteService services.VoteService
}

// NewVoteHandler creates a new VoteHandler with injected dependencies
func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// VoteQuestion handles POST /questions/:questionId/votes
// Body: {"direction": "up"}
func (h *VoteHandler) VoteQuestion(c *fiber.Ctx) error {
	return h.vote(c, interfaces.TargetQuestion, "questionId")
}

// VoteAnswer handles POST /answers/:answerId/votes
func (h *VoteHandler) VoteAnswer(c *fiber.Ctx) error {
	return h.vote(c, interfaces.TargetAnswer, "answerId")
}

func (h *VoteHandler) vote(c *fiber.Ctx, targetType, param string) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	targetID, err := uuid.FromString(c.Params(param))
	if err != nil {
		return errors.HandleUUIDError(c, param)
	}

	var req models.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	voteType, ok := models.ParseDirection(req.Direction)
	if !ok {
		return errors.HandleValidationError(c, `direction must be "up" or "down"`)
	}

	result, err := h.voteService.Vote(types.WithUser(c.UserContext(), user), targetType, targetID, voteType, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}
