package response

import (
	appErrors "ofo/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind appErrors.Kind) int {
	switch kind {
	case appErrors.KindValidation:
		return fiber.StatusBadRequest
	case appErrors.KindNotFound:
		return fiber.StatusNotFound
	case appErrors.KindInsufficientFunds, appErrors.KindLimitExceeded, appErrors.KindUpstreamRejected:
		return fiber.StatusUnprocessableEntity
	case appErrors.KindUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	case appErrors.KindReconciliationRequired:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainError writes err using its kind. Internal failures never expose
// their cause.
func DomainError(c *fiber.Ctx, err error) error {
	de, ok := appErrors.As(err)
	if !ok || de.Kind == appErrors.KindInternal {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
			"kind":  appErrors.KindInternal,
		})
	}

	message := de.Message
	if message == "" {
		message = string(de.Kind)
	}
	return c.Status(StatusFor(de.Kind)).JSON(fiber.Map{
		"error":     message,
		"kind":      de.Kind,
		"code":      de.Code,
		"retryable": de.Retryable(),
	})
}
