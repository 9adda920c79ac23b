package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Answer service specific errors
var (
	ErrAnswerNotFound          = errors.New("answer not found")
	ErrQuestionNotFound        = errors.New("question not found")
	ErrInvalidAnswerData       = errors.New("invalid answer data")
	ErrAnswerOwnershipRequired = errors.New("answer ownership required")
	ErrInvalidUserContext      = errors.New("invalid user context")
	ErrDatabaseOperation       = errors.New("database operation failed")
)

// Error codes
const (
	CodeAnswerNotFound     = "ANSWER_NOT_FOUND"
	CodeQuestionNotFound   = "QUESTION_NOT_FOUND"
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
	case errors.Is(err, ErrAnswerNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeAnswerNotFound,
			Message: "Answer not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrQuestionNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeQuestionNotFound,
			Message: "Question not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidAnswerData):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, ErrAnswerOwnershipRequired):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "Answer ownership required",
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
