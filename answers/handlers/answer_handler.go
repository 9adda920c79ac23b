// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/answers/errors"
	"github.com/qolzam/devflow/answers/models"
	"github.com/qolzam/devflow/answers/services"
	"github.com/qolzam/devflow/internal/pkg/parser"
	"github.com/qolzam/devflow/internal/types"
)

// AnswerHandler serves the answer endpoints.
type AnswerHandler struct {
	answerService services.AnswerService
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerService services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func currentUser(c *fiber.Ctx) *types.UserContext {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return nil
	}
	return &user
}

// CreateAnswer handles POST /questions/:questionId/answers
func (h *AnswerHandler) CreateAnswer(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	questionID, err := uuid.FromString(c.Params("questionId"))
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}

	req := &models.CreateAnswerRequest{}
	if err := c.BodyParser(req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	answer, err := h.answerService.CreateAnswer(types.WithUser(c.UserContext(), *user), questionID, req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(answer)
}

// ListAnswers handles GET /questions/:questionId/answers?sortBy&page&pageSize
func (h *AnswerHandler) ListAnswers(c *fiber.Ctx) error {
	questionID, err := uuid.FromString(c.Params("questionId"))
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}
	filter := &models.AnswerQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	page, err := h.answerService.ListAnswers(c.UserContext(), questionID, filter, currentUser(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// DeleteAnswer handles DELETE /answers/:answerId
func (h *AnswerHandler) DeleteAnswer(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	answerID, err := uuid.FromString(c.Params("answerId"))
	if err != nil {
		return errors.HandleUUIDError(c, "answerId")
	}

	if err := h.answerService.DeleteAnswer(types.WithUser(c.UserContext(), *user), answerID, user); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// AnswersByUser handles GET /users/:userId/answers?page&pageSize
func (h *AnswerHandler) AnswersByUser(c *fiber.Ctx) error {
	userID, err := uuid.FromString(c.Params("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}
	filter := &models.AnswerQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	page, err := h.answerService.AnswersByUser(c.UserContext(), userID, filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}
