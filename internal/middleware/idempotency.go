package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "lumenvault:idempotency:"
	inFlightMarker       = "__in_flight__"
	storeTimeout         = 2 * time.Second
)

type replayedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// PaymentIdempotency guards a payment route against duplicate submission: a
// repeated Idempotency-Key replays the original response instead of signing
// and submitting a second transaction. Requests without the header pass
// through; the ledger's own sequence numbers remain the last line of defense.
func PaymentIdempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(idempotencyKeyHeader)
		if key == "" {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), storeTimeout)
		defer cancel()

		cacheKey := idempotencyPrefix + key

		cached, err := cache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil && cached == inFlightMarker:
			return fiber.NewError(fiber.StatusConflict, "payment with this key is still processing")
		case err == nil:
			var replay replayedResponse
			if jerr := json.Unmarshal([]byte(cached), &replay); jerr != nil {
				logger.Warn("decode stored payment response", "key", key, "error", jerr)
				return fiber.NewError(fiber.StatusConflict, "duplicate payment request")
			}
			return c.Status(replay.Status).SendString(replay.Body)
		case err != redis.Nil:
			logger.Error("idempotency lookup failed", "key", key, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		if err := cache.SetNX(ctx, cacheKey, inFlightMarker, ttl).Err(); err != nil {
			logger.Error("idempotency reservation failed", "key", key, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		if err := c.Next(); err != nil {
			dropReservation(cache, cacheKey)
			return err
		}

		payload, err := json.Marshal(replayedResponse{
			Status: c.Response().StatusCode(),
			Body:   string(c.Response().Body()),
		})
		if err != nil {
			logger.Error("encode payment response for replay", "key", key, "error", err)
			dropReservation(cache, cacheKey)
			return nil
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), storeTimeout)
		defer persistCancel()
		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Error("persist payment response for replay", "key", key, "error", err)
			dropReservation(cache, cacheKey)
		}

		return nil
	}
}

func dropReservation(cache *redis.Client, cacheKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	cache.Del(ctx, cacheKey)
}
