package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lumenvault/lumenvault/internal/logging"
)

func setupPaymentApp(t *testing.T) (*fiber.App, *atomic.Int32, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(PaymentIdempotency(cache, time.Minute, logging.Discard()))

	var submissions atomic.Int32
	app.Post("/payments", func(c *fiber.Ctx) error {
		submissions.Add(1)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "submitted"})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, &submissions, cleanup
}

func postPayment(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/payments", strings.NewReader(`{"destination":"GDEST","amount":"1"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestPaymentIdempotencyReplaysResponse(t *testing.T) {
	app, submissions, cleanup := setupPaymentApp(t)
	defer cleanup()

	status1, body1 := postPayment(t, app, "pay-1")
	if status1 != fiber.StatusOK {
		t.Fatalf("first request status %d", status1)
	}

	status2, body2 := postPayment(t, app, "pay-1")
	if status2 != status1 || body2 != body1 {
		t.Fatalf("replay mismatch: %d %q vs %d %q", status2, body2, status1, body1)
	}

	if n := submissions.Load(); n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
}

func TestPaymentIdempotencyDistinctKeys(t *testing.T) {
	app, submissions, cleanup := setupPaymentApp(t)
	defer cleanup()

	postPayment(t, app, "pay-1")
	postPayment(t, app, "pay-2")

	if n := submissions.Load(); n != 2 {
		t.Fatalf("handler ran %d times, want 2", n)
	}
}

func TestPaymentIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, submissions, cleanup := setupPaymentApp(t)
	defer cleanup()

	postPayment(t, app, "")
	postPayment(t, app, "")

	if n := submissions.Load(); n != 2 {
		t.Fatalf("handler ran %d times, want 2", n)
	}
}
