package horizon

import (
	"context"
	"net/http"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/lumenvault/lumenvault/internal/config"
)

// submitWindow bounds how long a signed envelope stays valid. The built
// transaction expires this many seconds after construction.
const submitWindow = 30

// Client is the concrete Gateway backed by a Horizon server and a friendbot
// faucet.
type Client struct {
	horizon           *horizonclient.Client
	http              *http.Client
	friendbotURL      string
	networkPassphrase string
	baseFee           int64
}

var _ Gateway = (*Client)(nil)

// NewClient builds a gateway from configuration.
func NewClient(cfg config.Config) *Client {
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &Client{
		horizon: &horizonclient.Client{
			HorizonURL: cfg.HorizonURL,
			HTTP:       httpClient,
		},
		http:              httpClient,
		friendbotURL:      cfg.FriendbotURL,
		networkPassphrase: cfg.NetworkPassphrase,
		baseFee:           cfg.BaseFee,
	}
}

// LoadAccount fetches the current account state from Horizon.
func (c *Client) LoadAccount(_ context.Context, address string) (AccountSnapshot, error) {
	account, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		return AccountSnapshot{}, &AccountLoadError{Address: address, Err: err}
	}

	sequence, err := account.GetSequenceNumber()
	if err != nil {
		return AccountSnapshot{}, &AccountLoadError{Address: address, Err: err}
	}

	return AccountSnapshot{
		Address:  account.AccountID,
		Sequence: sequence,
		Balances: mapBalances(account.Balances),
	}, nil
}

// Balances lists the account's balances, newest trustlines last as Horizon
// reports them. Any failure yields an empty list.
func (c *Client) Balances(ctx context.Context, address string) ([]Balance, error) {
	snapshot, err := c.LoadAccount(ctx, address)
	if err != nil {
		return []Balance{}, nil
	}
	return snapshot.Balances, nil
}

// TransactionHistory lists the account's most recent transactions, newest
// first. Any failure yields an empty list.
func (c *Client) TransactionHistory(_ context.Context, address string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	page, err := c.horizon.Transactions(horizonclient.TransactionRequest{
		ForAccount: address,
		Order:      horizonclient.OrderDesc,
		Limit:      uint(limit),
	})
	if err != nil {
		return []Transaction{}, nil
	}

	records := make([]Transaction, 0, len(page.Embedded.Records))
	for _, tx := range page.Embedded.Records {
		records = append(records, Transaction{
			ID:             tx.ID,
			Hash:           tx.Hash,
			CreatedAt:      tx.LedgerCloseTime,
			Successful:     tx.Successful,
			OperationCount: tx.OperationCount,
			Memo:           tx.Memo,
			MemoType:       tx.MemoType,
		})
	}
	return records, nil
}

// BuildPayment loads the signer's account for its sequence number, constructs
// a single-operation payment with an optional text memo and a fixed expiry
// window, signs it and returns the envelope XDR.
func (c *Client) BuildPayment(_ context.Context, input PaymentInput) (string, error) {
	kp, err := keypair.ParseFull(input.SignerSecret)
	if err != nil {
		return "", &TransactionBuildError{Err: err}
	}

	sourceAccount, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: kp.Address()})
	if err != nil {
		return "", &TransactionBuildError{Err: &AccountLoadError{Address: kp.Address(), Err: err}}
	}

	var asset txnbuild.Asset = txnbuild.NativeAsset{}
	if input.AssetCode != "" && input.AssetCode != config.NativeAssetCode {
		asset = txnbuild.CreditAsset{Code: input.AssetCode, Issuer: input.AssetIssuer}
	}

	params := txnbuild.TransactionParams{
		SourceAccount:        &sourceAccount,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: input.Destination,
				Amount:      input.Amount,
				Asset:       asset,
			},
		},
		BaseFee:       c.baseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(submitWindow)},
	}
	if input.Memo != "" {
		params.Memo = txnbuild.MemoText(input.Memo)
	}

	tx, err := txnbuild.NewTransaction(params)
	if err != nil {
		return "", &TransactionBuildError{Err: err}
	}

	tx, err = tx.Sign(c.networkPassphrase, kp)
	if err != nil {
		return "", &TransactionBuildError{Err: err}
	}

	envelope, err := tx.Base64()
	if err != nil {
		return "", &TransactionBuildError{Err: err}
	}
	return envelope, nil
}

// Submit sends a signed envelope to the network. Rejections are propagated
// with the ledger's result code.
func (c *Client) Submit(_ context.Context, envelopeXDR string) (SubmitResult, error) {
	tx, err := c.horizon.SubmitTransactionXDR(envelopeXDR)
	if err != nil {
		return SubmitResult{}, &SubmissionError{Reason: rejectionReason(err), Err: err}
	}
	return SubmitResult{Hash: tx.Hash, Ledger: tx.Ledger, Successful: tx.Successful}, nil
}

// ValidSecret reports whether the candidate parses as a secret key. It never
// panics on arbitrary input.
func (c *Client) ValidSecret(candidate string) bool {
	_, err := keypair.ParseFull(candidate)
	return err == nil
}

// ParseSecret derives the keypair for a secret key.
func (c *Client) ParseSecret(candidate string) (Keypair, error) {
	kp, err := keypair.ParseFull(candidate)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Address: kp.Address(), Seed: kp.Seed()}, nil
}

// GenerateKeypair creates a fresh random keypair. No network calls.
func (c *Client) GenerateKeypair() (Keypair, error) {
	kp, err := keypair.Random()
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Address: kp.Address(), Seed: kp.Seed()}, nil
}

func mapBalances(in []hProtocol.Balance) []Balance {
	out := make([]Balance, 0, len(in))
	for _, b := range in {
		code := b.Code
		if b.Type == "native" {
			code = config.NativeAssetCode
		}
		out = append(out, Balance{
			AssetType:   b.Type,
			AssetCode:   code,
			AssetIssuer: b.Issuer,
			Amount:      b.Balance,
			Limit:       b.Limit,
		})
	}
	return out
}

func rejectionReason(err error) string {
	herr := horizonclient.GetError(err)
	if herr == nil {
		return err.Error()
	}
	if codes, cerr := herr.ResultCodes(); cerr == nil && codes.TransactionCode != "" {
		return codes.TransactionCode
	}
	if herr.Problem.Title != "" {
		return herr.Problem.Title
	}
	return err.Error()
}
