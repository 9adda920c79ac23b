// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package constraints

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
)

// RequireUUID answers 404 when the named path parameter is not a UUID, so
// "/questions/hot" style static routes never reach an id handler by accident.
// Register static routes before parameterized ones.
func RequireUUID(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, param := range params {
			value := c.Params(param)
			if value == "" {
				continue
			}
			if _, err := uuid.FromString(value); err != nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"code":    "NOT_FOUND",
					"message": "Resource not found",
				})
			}
		}
		return c.Next()
	}
}
