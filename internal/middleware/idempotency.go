package middleware

import (
	"context"
	"log/slog"
	"time"

	"ofo/internal/lib/logger/sl"
	"ofo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	idempotencyTTL  = 24 * time.Hour
	inFlightTTL     = 2 * time.Minute
	maxKeyLength    = 128
	statusInFlight  = 0
	idempotencyKind = "idempotency"
)

// IdempotencyStore is satisfied by the cache service.
type IdempotencyStore interface {
	GenerateKey(entityType, keyType string, value interface{}) string
	SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped to the authenticated user. A key whose first request is
// still running yields 409. Server errors are not stored, so the client
// may retry them with the same key.
func Idempotency(store IdempotencyStore, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		if len(key) > maxKeyLength {
			return response.BadRequest(c, "Idempotency-Key is too long")
		}

		userID, _ := c.Locals("userID").(string)
		cacheKey := store.GenerateKey(idempotencyKind, userID, c.Method()+" "+c.Path()+" "+key)
		ctx := c.UserContext()
		log := log.With(sl.String("op", "middleware.Idempotency"), sl.String("key", key), sl.String("user_id", userID))

		claimed, err := store.SetIfAbsent(ctx, cacheKey, storedResponse{Status: statusInFlight}, inFlightTTL)
		if err != nil {
			log.Error("idempotency store unavailable", sl.Err(err))
			return response.Error(c, fiber.StatusServiceUnavailable, "idempotency store unavailable")
		}

		if !claimed {
			var prior storedResponse
			found, err := store.Get(ctx, cacheKey, &prior)
			if err != nil {
				log.Error("failed to read idempotency record", sl.Err(err))
				return response.Error(c, fiber.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !found || prior.Status == statusInFlight {
				return response.Error(c, fiber.StatusConflict, "a request with this Idempotency-Key is in progress")
			}
			log.Info("idempotency hit")
			c.Set(HeaderIdempotencyHit, "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(prior.Status).Send(prior.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Delete(context.WithoutCancel(ctx), cacheKey)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Delete(context.WithoutCancel(ctx), cacheKey); err != nil {
				log.Warn("failed to release idempotency key", sl.Err(err))
			}
			return nil
		}

		body := append([]byte(nil), c.Response().Body()...)
		if err := store.SetWithTTL(context.WithoutCancel(ctx), cacheKey, storedResponse{Status: status, Body: body}, idempotencyTTL); err != nil {
			log.Error("failed to save idempotency record", sl.Err(err))
		}
		return nil
	}
}
