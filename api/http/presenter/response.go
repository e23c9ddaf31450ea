package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
}

// FieldErrorResponse carries per-field reasons alongside the message.
type FieldErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func FieldError(c *fiber.Ctx, status int, message string, fields map[string]string) error {
	return JSON(c, status, FieldErrorResponse{Message: message, Fields: fields})
}
