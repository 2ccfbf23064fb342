package models

import (
	"errors"
	"log/slog"

	"moodmate/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// exposeErrorDetail controls whether failure envelopes carry the internal
// error detail. Server bootstrap disables it in production.
var exposeErrorDetail = true

// SetErrorDetailExposure toggles internal-detail exposure on failure
// envelopes. Called once at startup with the loaded environment.
func SetErrorDetailExposure(expose bool) {
	exposeErrorDetail = expose
}

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// RespondData writes a success envelope with the given status and payload.
func RespondData(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError maps err to a wire status, logs it, and writes the failure
// envelope. Outside production the envelope additionally carries the internal
// failure detail; production responses never expose it.
func RespondError(c *fiber.Ctx, err error) error {
	status := MapError(err)

	message := "Internal Server Error"
	var detail string
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Err != nil {
			detail = appErr.Err.Error()
		}
	} else {
		detail = err.Error()
	}

	middleware.Logger.ErrorContext(c.UserContext(), "request error",
		slog.Int("status", status),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)

	resp := Response{
		Success: false,
		Message: message,
	}
	if detail != "" && exposeErrorDetail {
		resp.Errors = detail
	}

	return c.Status(status).JSON(resp)
}
