package handlers

import (
	"github.com/gofiber/fiber/v2"

	"catalog/internal/validation"
)

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// Envelope is the fixed response wrapper every operation returns.
type Envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func respondSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondValidationError(c *fiber.Ctx, details []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{
		Success: false,
		Message: "Validation failed",
		Error:   &ErrorBody{Code: "VALIDATION_ERROR", Details: details},
	})
}

func respondNotFound(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusNotFound).JSON(Envelope{
		Success: false,
		Message: "Product not found",
		Error: &ErrorBody{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"resource": "Product",
				"id":       id,
			},
		},
	})
}

// respondServerError downgrades any unexpected failure to the generic 500
// envelope, exposing only the underlying error text.
func respondServerError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(Envelope{
		Success: false,
		Message: "Something went wrong. Please try again later.",
		Error:   &ErrorBody{Code: "SERVER_ERROR", Details: err.Error()},
	})
}
