package horizon

import (
	"context"
	"fmt"
	"time"
)

// Balance is one entry of an account's balance listing. Amounts and limits
// are decimal strings as reported by the ledger.
type Balance struct {
	AssetType   string `json:"assetType"`
	AssetCode   string `json:"assetCode"`
	AssetIssuer string `json:"assetIssuer,omitempty"`
	Amount      string `json:"amount"`
	Limit       string `json:"limit,omitempty"`
}

// Transaction is one entry of an account's transaction history. No attempt is
// made to classify the operations inside; OperationCount and the memo are the
// raw ledger values.
type Transaction struct {
	ID             string    `json:"id"`
	Hash           string    `json:"hash"`
	CreatedAt      time.Time `json:"createdAt"`
	Successful     bool      `json:"successful"`
	OperationCount int32     `json:"operationCount"`
	Memo           string    `json:"memo,omitempty"`
	MemoType       string    `json:"memoType,omitempty"`
}

// AccountSnapshot is the ledger's view of an account at query time.
type AccountSnapshot struct {
	Address  string
	Sequence int64
	Balances []Balance
}

// Keypair is a freshly generated signing keypair.
type Keypair struct {
	Address string
	Seed    string
}

// PaymentInput captures everything needed to build a signed payment envelope.
// An empty asset code means the native asset.
type PaymentInput struct {
	SignerSecret string
	Destination  string
	Amount       string
	AssetCode    string
	AssetIssuer  string
	Memo         string
}

// SubmitResult is the ledger's acknowledgement of an accepted transaction.
type SubmitResult struct {
	Hash       string `json:"hash"`
	Ledger     int32  `json:"ledger"`
	Successful bool   `json:"successful"`
}

// Gateway is a stateless facade over the remote ledger. Every method is
// independently retryable by the caller; the gateway performs no retries of
// its own. Balances and TransactionHistory return an empty slice on any
// underlying failure, so an empty list means "unknown", not "zero".
type Gateway interface {
	LoadAccount(ctx context.Context, address string) (AccountSnapshot, error)
	Balances(ctx context.Context, address string) ([]Balance, error)
	TransactionHistory(ctx context.Context, address string, limit int) ([]Transaction, error)
	BuildPayment(ctx context.Context, input PaymentInput) (string, error)
	Submit(ctx context.Context, envelopeXDR string) (SubmitResult, error)
	Fund(ctx context.Context, address string) error
	ValidSecret(candidate string) bool
	ParseSecret(candidate string) (Keypair, error)
	GenerateKeypair() (Keypair, error)
}

// AccountLoadError indicates the address is malformed or the account does not
// exist on the network.
type AccountLoadError struct {
	Address string
	Err     error
}

func (e *AccountLoadError) Error() string {
	return fmt.Sprintf("load account %s: %v", e.Address, e.Err)
}

func (e *AccountLoadError) Unwrap() error { return e.Err }

// TransactionBuildError indicates a payment envelope could not be constructed
// or signed.
type TransactionBuildError struct {
	Err error
}

func (e *TransactionBuildError) Error() string {
	return fmt.Sprintf("build transaction: %v", e.Err)
}

func (e *TransactionBuildError) Unwrap() error { return e.Err }

// SubmissionError carries the network's rejection reason for a submitted
// transaction (bad sequence number, insufficient balance, ...).
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit transaction: %s", e.Reason)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// FundingError indicates the faucet declined or failed the funding request.
type FundingError struct {
	Address    string
	StatusCode int
	Err        error
}

func (e *FundingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fund account %s: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("fund account %s: faucet returned status %d", e.Address, e.StatusCode)
}

func (e *FundingError) Unwrap() error { return e.Err }
