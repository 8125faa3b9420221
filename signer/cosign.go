package signer

import (
	"crypto/ed25519"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// CompleteSignatures fills the missing signature slots of a server-supplied,
// partially signed transaction and returns it re-encoded as base58.
//
// The required signers are the first K static account keys of the message,
// where K is the header's required-signature count. Their order is the slot
// order the wire format expects and is never changed here. Each required
// signer is resolved against the primary identity first, then the registry;
// all resolved identities are applied in one partial-signing pass that
// leaves already-present signatures untouched. Before returning, every
// required slot is verified against the message bytes, whether this call
// filled it or the server did.
//
// A transaction with a non-zero required-signature count for which no signer
// resolves is rejected rather than signed with an irrelevant key.
func CompleteSignatures(rawTxBase58 string, primary Identity, reg Registry) (string, error) {
	raw, err := base58.Decode(rawTxBase58)
	if err != nil {
		return "", &DecodeError{Msg: "transaction is not valid base58", Err: err}
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return "", &DecodeError{Msg: "transaction failed to parse", Err: err}
	}

	numRequired := int(tx.Message.Header.NumRequiredSignatures)
	if numRequired > len(tx.Message.AccountKeys) {
		return "", &DecodeError{Msg: fmt.Sprintf(
			"message declares %d required signatures but carries %d account keys",
			numRequired, len(tx.Message.AccountKeys),
		)}
	}
	required := tx.Message.AccountKeys[:numRequired]

	resolved := make(map[solana.PublicKey]solana.PrivateKey, len(required))
	for _, pub := range required {
		addr := pub.String()
		if !primary.IsZero() && addr == primary.Address() {
			resolved[pub] = primary.key
			continue
		}
		if id, ok := reg[addr]; ok {
			resolved[pub] = id.key
		}
	}
	if len(resolved) == 0 && numRequired > 0 {
		return "", &SigningError{Msg: "no required signer resolvable from the supplied keys"}
	}

	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if pk, ok := resolved[key]; ok {
			return &pk
		}
		return nil
	}); err != nil {
		return "", &SigningError{Msg: "partial signing failed", Err: err}
	}

	if err := verifySlots(tx, required); err != nil {
		return "", err
	}

	out, err := tx.MarshalBinary()
	if err != nil {
		return "", &SigningError{Msg: "failed to serialize signed transaction", Err: err}
	}
	return base58.Encode(out), nil
}

// verifySlots checks that every required signer slot holds a signature that
// verifies against the message bytes. An under-signed transaction fails here
// instead of failing on-chain after broadcast.
func verifySlots(tx *solana.Transaction, required []solana.PublicKey) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return &SigningError{Msg: "failed to serialize message for verification", Err: err}
	}
	if len(tx.Signatures) != len(required) {
		return &SigningError{Msg: fmt.Sprintf(
			"transaction carries %d signature slots for %d required signers",
			len(tx.Signatures), len(required),
		)}
	}
	for i, pub := range required {
		sig := tx.Signatures[i]
		if !ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig[:]) {
			return &SigningError{Msg: fmt.Sprintf(
				"required signer slot %d (%s) is missing a valid signature", i, pub,
			)}
		}
	}
	return nil
}
