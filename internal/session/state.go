package session

import (
	"github.com/lumenvault/lumenvault/internal/contacts"
	"github.com/lumenvault/lumenvault/internal/horizon"
	"github.com/lumenvault/lumenvault/internal/keystore"
)

// State is the session aggregate the presentation layer renders from. Wallet
// is nil when no wallet is active. Balances and Transactions are replaced
// wholesale on every refresh; Err carries the short message of the most
// recent explicit-action failure.
type State struct {
	Wallet       *keystore.Record      `json:"wallet"`
	Balances     []horizon.Balance     `json:"balances"`
	Transactions []horizon.Transaction `json:"transactions"`
	Contacts     []contacts.Contact    `json:"contacts"`
	Loading      bool                  `json:"loading"`
	Err          string                `json:"error,omitempty"`
}

func (s State) clone() State {
	out := State{
		Balances:     append([]horizon.Balance{}, s.Balances...),
		Transactions: append([]horizon.Transaction{}, s.Transactions...),
		Contacts:     append([]contacts.Contact{}, s.Contacts...),
		Loading:      s.Loading,
		Err:          s.Err,
	}
	if s.Wallet != nil {
		wallet := *s.Wallet
		out.Wallet = &wallet
	}
	return out
}
