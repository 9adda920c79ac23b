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
	"github.com/qolzam/devflow/questions/errors"
	"github.com/qolzam/devflow/questions/models"
	"github.com/qolzam/devflow/questions/services"
)

// QuestionHandler serves the question endpoints.
type QuestionHandler struct {
	questionService services.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// currentUser returns the caller attached by dualauth, or nil for anonymous requests.
func currentUser(c *fiber.Ctx) *types.UserContext {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return nil
	}
	return &user
}

func questionID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.FromString(c.Params("questionId"))
}

// CreateQuestion handles POST /questions
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}

	req := &models.CreateQuestionRequest{}
	if err := c.BodyParser(req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	question, err := h.questionService.CreateQuestion(types.WithUser(c.UserContext(), *user), req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(question)
}

// GetQuestion handles GET /questions/:questionId
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	id, err := questionID(c)
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}

	detail, err := h.questionService.GetQuestion(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(detail)
}

// UpdateQuestion handles PUT /questions/:questionId
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	id, err := questionID(c)
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}

	req := &models.UpdateQuestionRequest{}
	if err := c.BodyParser(req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	question, err := h.questionService.UpdateQuestion(types.WithUser(c.UserContext(), *user), id, req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(question)
}

// DeleteQuestion handles DELETE /questions/:questionId
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	id, err := questionID(c)
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}

	if err := h.questionService.DeleteQuestion(types.WithUser(c.UserContext(), *user), id, user); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListQuestions handles GET /questions?q&filter&page&pageSize
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	filter := &models.QuestionQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	page, err := h.questionService.ListQuestions(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// HotQuestions handles GET /questions/hot
func (h *QuestionHandler) HotQuestions(c *fiber.Ctx) error {
	questions, err := h.questionService.HotQuestions(c.UserContext())
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"questions": questions})
}

// ViewQuestion handles POST /questions/:questionId/view
func (h *QuestionHandler) ViewQuestion(c *fiber.Ctx) error {
	id, err := questionID(c)
	if err != nil {
		return errors.HandleUUIDError(c, "questionId")
	}

	result, err := h.questionService.ViewQuestion(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// QuestionsByTag handles GET /tags/:tagId/questions?q&page&pageSize
func (h *QuestionHandler) QuestionsByTag(c *fiber.Ctx) error {
	tagID, err := uuid.FromString(c.Params("tagId"))
	if err != nil {
		return errors.HandleUUIDError(c, "tagId")
	}
	filter := &models.QuestionQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	page, err := h.questionService.QuestionsByTag(c.UserContext(), tagID, filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// QuestionsByUser handles GET /users/:userId/questions?page&pageSize
func (h *QuestionHandler) QuestionsByUser(c *fiber.Ctx) error {
	userID, err := uuid.FromString(c.Params("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}
	filter := &models.QuestionQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	page, err := h.questionService.QuestionsByUser(c.UserContext(), userID, filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}
