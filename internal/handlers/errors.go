package handlers

import (
	"errors"
	"log/slog"

	"dailydiet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError writes the JSON response matching err.
func respondError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var ve *validationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  ve.fields,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	case errors.Is(err, services.ErrMealNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meal not found"})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email already exists"})
	case errors.Is(err, services.ErrPasswordMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Passwords do not match"})
	case errors.Is(err, services.ErrOldPasswordRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Old password is required"})
	case errors.Is(err, services.ErrOldPasswordIncorrect):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Old password is incorrect"})
	}

	logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// ErrorHandler renders errors escaping the handlers, including recovered
// panics and unmatched routes, as JSON.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
