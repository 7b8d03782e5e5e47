package handlers

import (
	"log/slog"

	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/utils/response"
	"ofo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// base carries what every handler needs to decode, validate and answer.
type base struct {
	validator *validation.RequestValidator
	log       *slog.Logger
}

// bind parses the body into req and validates it. On failure the error
// response has already been written and ok is false.
func (b base) bind(c *fiber.Ctx, req interface{}) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, response.BadRequest(c, "invalid request body")
	}
	if err := b.validator.Struct(req); err != nil {
		return false, response.DomainError(c, err)
	}
	return true, nil
}

// fail writes err. Only internal failures are logged here; services log
// their own aborts.
func (b base) fail(c *fiber.Ctx, op string, err error) error {
	if appErrors.KindOf(err) == appErrors.KindInternal {
		b.log.Error("request failed", sl.String("op", op), sl.String("path", c.Path()), sl.Err(err))
	}
	return response.DomainError(c, err)
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
