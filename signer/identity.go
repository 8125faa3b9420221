// Package signer completes the signatures on partially signed Solana
// transactions using caller-supplied private keys.
package signer

import (
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Identity is a signing identity derived from a caller-supplied secret key.
// It is constructed on demand at the start of an operation and discarded when
// the operation ends; nothing in this package caches key material.
type Identity struct {
	key solana.PrivateKey
}

// DeriveIdentity decodes a base58 secret key into a signing identity.
// A 32-byte decode is treated as an ed25519 seed and expanded to the full
// keypair; a 64-byte decode is the keypair itself. Any other length is a
// DecodeError.
func DeriveIdentity(secret string) (Identity, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return Identity{}, &DecodeError{Msg: "secret key is not valid base58", Err: err}
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return Identity{key: solana.PrivateKey(ed25519.NewKeyFromSeed(raw))}, nil
	case ed25519.PrivateKeySize:
		return Identity{key: solana.PrivateKey(raw)}, nil
	default:
		return Identity{}, &DecodeError{
			Msg: fmt.Sprintf("invalid secret key length %d, want 32 or 64", len(raw)),
		}
	}
}

// Address returns the base58-encoded public key of the identity.
func (id Identity) Address() string {
	return id.key.PublicKey().String()
}

// PublicKey returns the public key of the identity.
func (id Identity) PublicKey() solana.PublicKey {
	return id.key.PublicKey()
}

// IsZero reports whether the identity carries no key material.
func (id Identity) IsZero() bool {
	return len(id.key) == 0
}

// Registry maps a base58 public address to the identity that can sign for it.
// A registry is built fresh per operation from the participating wallets.
type Registry map[string]Identity

// BuildRegistry derives an identity for every secret and indexes it by
// address. The first malformed secret aborts the build; no partial registry
// is returned.
func BuildRegistry(secrets []string) (Registry, error) {
	reg := make(Registry, len(secrets))
	for i, secret := range secrets {
		id, err := DeriveIdentity(secret)
		if err != nil {
			return nil, fmt.Errorf("wallet %d: %w", i, err)
		}
		reg[id.Address()] = id
	}
	return reg, nil
}
