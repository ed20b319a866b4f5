package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lumenvault/lumenvault/internal/contacts"
	"github.com/lumenvault/lumenvault/internal/horizon"
	"github.com/lumenvault/lumenvault/internal/keystore"
)

// Manager owns the session state and is the only component the presentation
// layer talks to. It mediates every read and write between the credential
// store, the address book and the ledger gateway. Network-touching operations
// set Loading for their duration; explicit-action failures set Err and leave
// the affected state slices at their prior values.
type Manager struct {
	wallets      keystore.Store
	contacts     contacts.Repository
	gateway      horizon.Gateway
	logger       *slog.Logger
	historyLimit int

	mu sync.Mutex
	// generation increments whenever the active wallet changes. A refresh
	// captures it at start and discards its result when it no longer
	// matches, so a slow response cannot write another wallet's data.
	generation uint64
	state      State
}

// New constructs a manager with its collaborators injected.
func New(wallets keystore.Store, contactRepo contacts.Repository, gateway horizon.Gateway, logger *slog.Logger, historyLimit int) *Manager {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Manager{
		wallets:      wallets,
		contacts:     contactRepo,
		gateway:      gateway,
		logger:       logger,
		historyLimit: historyLimit,
		state: State{
			Balances:     []horizon.Balance{},
			Transactions: []horizon.Transaction{},
			Contacts:     []contacts.Contact{},
		},
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Initialize loads the wallet and contacts from their stores and, when a
// wallet is present, refreshes balances and history. Runs once at startup.
func (m *Manager) Initialize(ctx context.Context) error {
	rec, err := m.wallets.Load(ctx)
	if err != nil {
		return err
	}

	book, err := m.contacts.List(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.state.Wallet = rec
	m.state.Contacts = book
	m.mu.Unlock()

	if rec != nil {
		m.RefreshBalances(ctx)
		m.RefreshTransactions(ctx)
	}
	return nil
}

// GenerateWallet creates a fresh keypair, persists it unfunded and makes it
// the active wallet. No network calls.
func (m *Manager) GenerateWallet(ctx context.Context) (*keystore.Record, error) {
	kp, err := m.gateway.GenerateKeypair()
	if err != nil {
		m.fail("failed to generate wallet", err)
		return nil, err
	}

	rec := keystore.Record{PublicAddress: kp.Address, SecretKey: kp.Seed}
	if err := m.wallets.Save(ctx, rec); err != nil {
		m.fail("failed to save wallet", err)
		return nil, err
	}

	m.replaceWallet(rec)
	return &rec, nil
}

// ImportWallet validates the secret, persists the wallet unfunded, makes it
// active and refreshes balances and history. Invalid secrets set Err and
// leave all state untouched.
func (m *Manager) ImportWallet(ctx context.Context, secret string) bool {
	if !m.gateway.ValidSecret(secret) {
		m.fail("invalid secret key", nil)
		return false
	}

	kp, err := m.gateway.ParseSecret(secret)
	if err != nil {
		m.fail("failed to import wallet", err)
		return false
	}

	rec := keystore.Record{PublicAddress: kp.Address, SecretKey: kp.Seed}
	if err := m.wallets.Save(ctx, rec); err != nil {
		m.fail("failed to import wallet", err)
		return false
	}

	m.replaceWallet(rec)
	m.RefreshBalances(ctx)
	m.RefreshTransactions(ctx)
	return true
}

// FundWallet requests faucet funding for the active wallet. On success the
// funded flag is set in the store and in memory and balances are refreshed.
func (m *Manager) FundWallet(ctx context.Context) bool {
	m.mu.Lock()
	if m.state.Wallet == nil {
		m.mu.Unlock()
		return false
	}
	address := m.state.Wallet.PublicAddress
	m.mu.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.gateway.Fund(ctx, address); err != nil {
		m.fail("failed to fund wallet", err)
		return false
	}

	if err := m.wallets.MarkFunded(ctx, address); err != nil {
		m.logger.Warn("persist funded flag", "address", address, "error", err)
	}

	m.mu.Lock()
	if m.state.Wallet != nil && m.state.Wallet.PublicAddress == address {
		m.state.Wallet.Funded = true
	}
	m.mu.Unlock()

	m.RefreshBalances(ctx)
	return true
}

// ClearWallet removes the persisted record and resets wallet, balances and
// transactions. Contacts are untouched.
func (m *Manager) ClearWallet(ctx context.Context) error {
	if err := m.wallets.Clear(ctx); err != nil {
		m.fail("failed to clear wallet", err)
		return err
	}

	m.mu.Lock()
	m.generation++
	m.state.Wallet = nil
	m.state.Balances = []horizon.Balance{}
	m.state.Transactions = []horizon.Transaction{}
	m.state.Err = ""
	m.mu.Unlock()
	return nil
}

// RefreshBalances replaces the balance list from the ledger. No-op without an
// active wallet; failures are logged, not surfaced.
func (m *Manager) RefreshBalances(ctx context.Context) {
	address, gen, ok := m.refreshTarget()
	if !ok {
		return
	}

	balances, err := m.gateway.Balances(ctx, address)
	if err != nil {
		m.logger.Warn("refresh balances", "address", address, "error", err)
		return
	}

	m.mu.Lock()
	if m.generation == gen {
		m.state.Balances = balances
	}
	m.mu.Unlock()
}

// RefreshTransactions replaces the transaction list from the ledger, newest
// first. No-op without an active wallet; failures are logged, not surfaced.
func (m *Manager) RefreshTransactions(ctx context.Context) {
	address, gen, ok := m.refreshTarget()
	if !ok {
		return
	}

	records, err := m.gateway.TransactionHistory(ctx, address, m.historyLimit)
	if err != nil {
		m.logger.Warn("refresh transactions", "address", address, "error", err)
		return
	}

	m.mu.Lock()
	if m.generation == gen {
		m.state.Transactions = records
	}
	m.mu.Unlock()
}

// SendPayment builds, signs and submits a payment from the active wallet and
// refreshes balances and history on success. Any failure in the chain sets a
// generic payment error and applies no state changes.
func (m *Manager) SendPayment(ctx context.Context, destination, amount, memo string) bool {
	m.mu.Lock()
	if m.state.Wallet == nil {
		m.mu.Unlock()
		return false
	}
	secret := m.state.Wallet.SecretKey
	m.mu.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	envelope, err := m.gateway.BuildPayment(ctx, horizon.PaymentInput{
		SignerSecret: secret,
		Destination:  destination,
		Amount:       amount,
		Memo:         memo,
	})
	if err != nil {
		m.fail("payment failed", err)
		return false
	}

	if _, err := m.gateway.Submit(ctx, envelope); err != nil {
		m.fail("payment failed", err)
		return false
	}

	m.RefreshBalances(ctx)
	m.RefreshTransactions(ctx)
	return true
}

// AddContact appends a contact through the address book and mirrors the
// store's result into memory.
func (m *Manager) AddContact(ctx context.Context, input contacts.AddInput) (contacts.Contact, error) {
	contact, err := m.contacts.Add(ctx, input)
	if err != nil {
		return contacts.Contact{}, err
	}

	m.mu.Lock()
	m.state.Contacts = append(m.state.Contacts, contact)
	m.mu.Unlock()
	return contact, nil
}

// UpdateContact merges fields through the address book; unknown ids return
// nil and mutate nothing.
func (m *Manager) UpdateContact(ctx context.Context, id string, input contacts.UpdateInput) (*contacts.Contact, error) {
	updated, err := m.contacts.Update(ctx, id, input)
	if err != nil || updated == nil {
		return nil, err
	}

	m.mu.Lock()
	for i, c := range m.state.Contacts {
		if c.ID == id {
			m.state.Contacts[i] = *updated
			break
		}
	}
	m.mu.Unlock()
	return updated, nil
}

// DeleteContact removes a contact; callers must check the returned bool
// before assuming deletion occurred.
func (m *Manager) DeleteContact(ctx context.Context, id string) (bool, error) {
	removed, err := m.contacts.Delete(ctx, id)
	if err != nil || !removed {
		return false, err
	}

	m.mu.Lock()
	for i, c := range m.state.Contacts {
		if c.ID == id {
			m.state.Contacts = append(m.state.Contacts[:i], m.state.Contacts[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	return true, nil
}

// LookupContact surfaces a known contact for a typed-in address.
func (m *Manager) LookupContact(ctx context.Context, address string) (*contacts.Contact, error) {
	return m.contacts.FindByAddress(ctx, address)
}

func (m *Manager) replaceWallet(rec keystore.Record) {
	m.mu.Lock()
	m.generation++
	m.state.Wallet = &rec
	m.state.Balances = []horizon.Balance{}
	m.state.Transactions = []horizon.Transaction{}
	m.state.Err = ""
	m.mu.Unlock()
}

func (m *Manager) refreshTarget() (address string, gen uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Wallet == nil {
		return "", 0, false
	}
	return m.state.Wallet.PublicAddress, m.generation, true
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.state.Loading = v
	m.mu.Unlock()
}

// fail records the short user-facing message and logs the detail.
func (m *Manager) fail(msg string, err error) {
	m.mu.Lock()
	m.state.Err = msg
	m.mu.Unlock()
	if err != nil {
		m.logger.Error(msg, "error", err)
	} else {
		m.logger.Error(msg)
	}
}
