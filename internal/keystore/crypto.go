package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLen  = 16
	nonceLen = 24

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Sealer encrypts the secret key at rest using a passphrase-derived key.
type Sealer struct {
	passphrase []byte
}

// NewSealer builds a sealer from a passphrase; an empty passphrase yields nil,
// meaning secrets are stored in the clear.
func NewSealer(passphrase string) *Sealer {
	if passphrase == "" {
		return nil
	}
	return &Sealer{passphrase: []byte(passphrase)}
}

// Seal encrypts the secret and returns a base64 blob of salt|nonce|box.
func (s *Sealer) Seal(secret string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := s.deriveKey(salt)
	if err != nil {
		return "", err
	}

	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, saltLen+nonceLen+len(secret)+secretbox.Overhead)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, []byte(secret), &nonce, key)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a blob produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed secret: %w", err)
	}
	if len(raw) < saltLen+nonceLen+secretbox.Overhead {
		return "", fmt.Errorf("sealed secret too short")
	}

	key, err := s.deriveKey(raw[:saltLen])
	if err != nil {
		return "", err
	}

	var nonce [nonceLen]byte
	copy(nonce[:], raw[saltLen:saltLen+nonceLen])

	secret, ok := secretbox.Open(nil, raw[saltLen+nonceLen:], &nonce, key)
	if !ok {
		return "", fmt.Errorf("open sealed secret: wrong passphrase or corrupt data")
	}

	return string(secret), nil
}

func (s *Sealer) deriveKey(salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
