package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumenvault/lumenvault/internal/session"
)

// RegisterContactRoutes wires address book endpoints.
func RegisterContactRoutes(r fiber.Router, h *session.Handler) {
	r.Get("/contacts", h.ListContacts)
	r.Post("/contacts", h.AddContact)
	r.Get("/contacts/lookup", h.LookupContact)
	r.Put("/contacts/:contactId", h.UpdateContact)
	r.Delete("/contacts/:contactId", h.DeleteContact)
}
