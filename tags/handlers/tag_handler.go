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
	"github.com/qolzam/devflow/tags/errors"
	"github.com/qolzam/devflow/tags/models"
	"github.com/qolzam/devflow/tags/services"
)

// TagHandler serves the tag endpoints.
type TagHandler struct {
	tagService services.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags handles GET /tags?q&filter&page&pageSize
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	filter := &models.TagQueryFilter{}
	if err := parser.Query(c, filter); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	result, err := h.tagService.ListTags(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// PopularTags handles GET /tags/popular?limit
func (h *TagHandler) PopularTags(c *fiber.Ctx) error {
	query := &models.PopularQuery{}
	if err := parser.Query(c, query); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	tags, err := h.tagService.PopularTags(c.UserContext(), query.Limit)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"tags": tags})
}

// GetTag handles GET /tags/:tagId
func (h *TagHandler) GetTag(c *fiber.Ctx) error {
	tagID, err := uuid.FromString(c.Params("tagId"))
	if err != nil {
		return errors.HandleUUIDError(c, "tagId")
	}

	tag, err := h.tagService.GetTag(c.UserContext(), tagID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(tag)
}
