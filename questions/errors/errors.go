package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/shared/interfaces"
)

// Question service specific errors
var (
	ErrQuestionNotFound          = errors.New("question not found")
	ErrTagNotFound               = errors.New("tag not found")
	ErrInvalidQuestionData       = errors.New("invalid question data")
	ErrQuestionOwnershipRequired = errors.New("question ownership required")
	ErrInvalidUserContext        = errors.New("invalid user context")
	ErrDatabaseOperation         = errors.New("database operation failed")
)

// Error codes
const (
	CodeQuestionNotFound   = "QUESTION_NOT_FOUND"
	CodeTagNotFound        = "TAG_NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidUUID        = "INVALID_UUID"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeDatabaseOperation  = "DATABASE_OPERATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrQuestionNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeQuestionNotFound,
			Message: "Question not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrTagNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeTagNotFound,
			Message: "Tag not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidQuestionData), errors.Is(err, interfaces.ErrInvalidTags):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, ErrQuestionOwnershipRequired):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "Question ownership required",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidUserContext):
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Code:    CodeMissingUserContext,
			Message: "Authentication required",
			Details: err.Error(),
		})
	case errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeDatabaseOperation,
			Message: "Database operation failed",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string, details ...string) error {
	response := ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(http.StatusBadRequest).JSON(response)
}

// HandleUserContextError handles a missing caller with 401 Unauthorized
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: message,
		Details: message,
	})
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

// HandleUUIDError handles UUID parsing errors with 400 Bad Request
func HandleUUIDError(c *fiber.Ctx, fieldName string) error {
	message := fmt.Sprintf("Invalid %s format", fieldName)
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidUUID,
		Message: message,
		Details: message,
	})
}
