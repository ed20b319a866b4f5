package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumenvault/lumenvault/internal/middleware"
	"github.com/lumenvault/lumenvault/internal/session"
)

// RegisterPaymentRoutes wires the payment endpoint, guarded against duplicate
// submission when Redis is available.
func RegisterPaymentRoutes(r fiber.Router, h *session.Handler, d Deps) {
	handlers := []fiber.Handler{}
	if d.Cache != nil {
		handlers = append(handlers, middleware.PaymentIdempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	handlers = append(handlers, h.SendPayment)
	r.Post("/payments", handlers...)
}
