package keystore

import (
	"context"
	"encoding/json"
)

// schemaVersion guards the persisted payload shape. A payload carrying any
// other version is treated the same as a corrupt one: absent.
const schemaVersion = 1

// Record is the single active wallet: keypair plus whether the faucet has
// credited it. Exactly one record exists at a time.
type Record struct {
	PublicAddress string `json:"publicAddress"`
	SecretKey     string `json:"secretKey"`
	Funded        bool   `json:"funded"`
}

// Store persists the active wallet record. Load returns nil when no record
// exists or the stored payload cannot be decoded; corrupt data is never an
// error. Save replaces the record wholesale.
type Store interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
	MarkFunded(ctx context.Context, address string) error
}

type payload struct {
	Version       int    `json:"version"`
	PublicAddress string `json:"publicAddress"`
	SecretKey     string `json:"secretKey"`
	Funded        bool   `json:"funded"`
	Sealed        bool   `json:"sealed,omitempty"`
}

func encodeRecord(rec Record, sealer *Sealer) ([]byte, error) {
	p := payload{
		Version:       schemaVersion,
		PublicAddress: rec.PublicAddress,
		SecretKey:     rec.SecretKey,
		Funded:        rec.Funded,
	}
	if sealer != nil {
		sealed, err := sealer.Seal(rec.SecretKey)
		if err != nil {
			return nil, err
		}
		p.SecretKey = sealed
		p.Sealed = true
	}
	return json.Marshal(p)
}

// decodeRecord maps every failure mode (bad JSON, schema mismatch, seal that
// will not open) to absent, matching the load contract.
func decodeRecord(data []byte, sealer *Sealer) *Record {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if p.Version != schemaVersion {
		return nil
	}
	rec := Record{PublicAddress: p.PublicAddress, SecretKey: p.SecretKey, Funded: p.Funded}
	if p.Sealed {
		if sealer == nil {
			return nil
		}
		secret, err := sealer.Open(p.SecretKey)
		if err != nil {
			return nil
		}
		rec.SecretKey = secret
	}
	return &rec
}
