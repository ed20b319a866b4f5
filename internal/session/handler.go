package session

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lumenvault/lumenvault/internal/contacts"
)

// Handler exposes the session capability surface over HTTP.
type Handler struct {
	manager *Manager
}

// NewHandler builds a session HTTP handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// State returns the full session state aggregate.
func (h *Handler) State(c *fiber.Ctx) error {
	return c.JSON(h.manager.Snapshot())
}

// GenerateWallet creates and activates a fresh keypair.
func (h *Handler) GenerateWallet(c *fiber.Ctx) error {
	rec, err := h.manager.GenerateWallet(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(rec)
}

type importRequest struct {
	Secret string `json:"secret"`
}

// ImportWallet activates a wallet from a supplied secret key.
func (h *Handler) ImportWallet(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !h.manager.ImportWallet(c.UserContext(), req.Secret) {
		return fiber.NewError(http.StatusUnprocessableEntity, h.manager.Snapshot().Err)
	}
	return c.Status(http.StatusCreated).JSON(h.manager.Snapshot().Wallet)
}

// FundWallet asks the faucet to credit the active wallet.
func (h *Handler) FundWallet(c *fiber.Ctx) error {
	snapshot := h.manager.Snapshot()
	if snapshot.Wallet == nil {
		return fiber.NewError(http.StatusConflict, "no active wallet")
	}
	if !h.manager.FundWallet(c.UserContext()) {
		return fiber.NewError(http.StatusBadGateway, h.manager.Snapshot().Err)
	}
	return c.JSON(h.manager.Snapshot().Wallet)
}

// ClearWallet deactivates and forgets the active wallet.
func (h *Handler) ClearWallet(c *fiber.Ctx) error {
	if err := h.manager.ClearWallet(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Refresh re-reads balances and history from the ledger.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	ctx := c.UserContext()
	h.manager.RefreshBalances(ctx)
	h.manager.RefreshTransactions(ctx)
	return c.JSON(h.manager.Snapshot())
}

type paymentRequest struct {
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	Memo        string `json:"memo"`
}

// SendPayment builds and submits a payment from the active wallet.
func (h *Handler) SendPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Destination == "" || req.Amount == "" {
		return fiber.NewError(http.StatusBadRequest, "destination and amount are required")
	}

	snapshot := h.manager.Snapshot()
	if snapshot.Wallet == nil {
		return fiber.NewError(http.StatusConflict, "no active wallet")
	}

	if !h.manager.SendPayment(c.UserContext(), req.Destination, req.Amount, req.Memo) {
		return fiber.NewError(http.StatusUnprocessableEntity, h.manager.Snapshot().Err)
	}
	return c.JSON(fiber.Map{"status": "submitted"})
}

// ListContacts returns the full address book.
func (h *Handler) ListContacts(c *fiber.Ctx) error {
	return c.JSON(h.manager.Snapshot().Contacts)
}

type contactRequest struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Memo    string   `json:"memo"`
	Tags    []string `json:"tags"`
}

// AddContact appends a contact to the address book.
func (h *Handler) AddContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	contact, err := h.manager.AddContact(c.UserContext(), contacts.AddInput{
		Name:    req.Name,
		Address: req.Address,
		Memo:    req.Memo,
		Tags:    req.Tags,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(contact)
}

type contactUpdateRequest struct {
	Name    *string  `json:"name"`
	Address *string  `json:"address"`
	Memo    *string  `json:"memo"`
	Tags    []string `json:"tags"`
}

// UpdateContact merges fields over an existing contact.
func (h *Handler) UpdateContact(c *fiber.Ctx) error {
	var req contactUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.manager.UpdateContact(c.UserContext(), c.Params("contactId"), contacts.UpdateInput{
		Name:    req.Name,
		Address: req.Address,
		Memo:    req.Memo,
		Tags:    req.Tags,
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if updated == nil {
		return fiber.NewError(http.StatusNotFound, "contact not found")
	}
	return c.JSON(updated)
}

// DeleteContact removes a contact by id.
func (h *Handler) DeleteContact(c *fiber.Ctx) error {
	removed, err := h.manager.DeleteContact(c.UserContext(), c.Params("contactId"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if !removed {
		return fiber.NewError(http.StatusNotFound, "contact not found")
	}
	return c.SendStatus(http.StatusNoContent)
}

// LookupContact finds a contact by exact address match.
func (h *Handler) LookupContact(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return fiber.NewError(http.StatusBadRequest, "address query parameter is required")
	}
	contact, err := h.manager.LookupContact(c.UserContext(), address)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if contact == nil {
		return fiber.NewError(http.StatusNotFound, "no contact for address")
	}
	return c.JSON(contact)
}
