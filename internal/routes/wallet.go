package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumenvault/lumenvault/internal/session"
)

// RegisterWalletRoutes wires wallet lifecycle endpoints.
func RegisterWalletRoutes(r fiber.Router, h *session.Handler) {
	r.Post("/wallet/generate", h.GenerateWallet)
	r.Post("/wallet/import", h.ImportWallet)
	r.Post("/wallet/fund", h.FundWallet)
	r.Post("/wallet/refresh", h.Refresh)
	r.Delete("/wallet", h.ClearWallet)
}
