package response

import "github.com/gofiber/fiber/v2"

// Every endpoint answers with the same JSON envelope, so clients parse
// one shape regardless of outcome.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody carries a stable machine code next to the human message.
// Details is free-form: field maps for validation, field lists for
// conflicts.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	Total      int64 `json:"total,omitempty"`
	TotalPages int64 `json:"total_pages,omitempty"`
}

func Success(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(Envelope{Success: true, Message: message, Data: data})
}

func SuccessWithMeta(c *fiber.Ctx, data interface{}, meta *Meta, message string) error {
	return c.JSON(Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

func Created(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func Error(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Details: details},
	})
}

func BadRequest(c *fiber.Ctx, message string, details interface{}) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message, details)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func Forbidden(c *fiber.Ctx, code, message string, details interface{}) error {
	return Error(c, fiber.StatusForbidden, code, message, details)
}

func NotFound(c *fiber.Ctx, resource string) error {
	return Error(c, fiber.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
}

func Conflict(c *fiber.Ctx, message string, details interface{}) error {
	return Error(c, fiber.StatusConflict, "CONFLICT", message, details)
}

func ValidationError(c *fiber.Ctx, fields interface{}) error {
	return Error(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", fields)
}

func InternalError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

// TokenInvalid covers 6-digit codes that don't match a live row,
// whether verification or reset.
func TokenInvalid(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "TOKEN_INVALID", message, nil)
}

// TokenExpired takes the status: an expired verification code answers
// 403, an expired reset code answers 400.
func TokenExpired(c *fiber.Ctx, status int, message string) error {
	return Error(c, status, "TOKEN_EXPIRED", message, nil)
}

// PageMeta derives the pagination block for list endpoints.
func PageMeta(page, limit int, total int64) *Meta {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
