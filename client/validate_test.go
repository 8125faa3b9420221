package client

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMint = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"

func secretOfLen(b byte, n int) string {
	return base58.Encode(bytes.Repeat([]byte{b}, n))
}

func goodWallet(b byte) Wallet {
	return Wallet{SecretKey: secretOfLen(b, 32)}
}

func TestValidateSellInputs_PercentOutOfRange(t *testing.T) {
	for _, percent := range []float64{0, 0.5, 101, 150, -3} {
		err := ValidateSellInputs(SellParams{
			Wallets:     []Wallet{goodWallet(0x01)},
			Mint:        testMint,
			SellPercent: percent,
			Protocol:    ProtocolPump,
		})
		require.Error(t, err, "percent %v must be rejected", percent)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Error(), "between 1 and 100")
	}
}

func TestValidateBuyInputs_MalformedSecondWallet(t *testing.T) {
	err := ValidateBuyInputs(BuyParams{
		Wallets:   []Wallet{goodWallet(0x01), {SecretKey: secretOfLen(0x02, 10)}},
		Mint:      testMint,
		AmountSOL: "0.5",
		Protocol:  ProtocolPump,
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Field, "wallets[1]")
}

func TestValidateBuyInputs_EmptyWalletList(t *testing.T) {
	err := ValidateBuyInputs(BuyParams{
		Mint:      testMint,
		AmountSOL: "0.5",
		Protocol:  ProtocolPump,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestValidateBuyInputs_BadAmountAndProtocol(t *testing.T) {
	base := BuyParams{
		Wallets:   []Wallet{goodWallet(0x01)},
		Mint:      testMint,
		AmountSOL: "0.5",
		Protocol:  ProtocolPump,
	}

	p := base
	p.AmountSOL = "zero"
	require.Error(t, ValidateBuyInputs(p))

	p = base
	p.AmountSOL = "-1"
	require.Error(t, ValidateBuyInputs(p))

	p = base
	p.Protocol = "serum"
	err := ValidateBuyInputs(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestValidateAddress(t *testing.T) {
	require.NoError(t, validAddress("mint", testMint))

	err := validAddress("mint", "short")
	require.Error(t, err)

	err = validAddress("mint", "not!base58")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base58")
}

func TestValidateDistributeInputs(t *testing.T) {
	sender := goodWallet(0x01)

	err := ValidateDistributeInputs(DistributeParams{Sender: sender})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")

	err = ValidateDistributeInputs(DistributeParams{
		Sender:     sender,
		Recipients: []Wallet{{SecretKey: secretOfLen(0x02, 32), Amount: ""}},
	})
	require.Error(t, err, "recipient amounts are required")

	err = ValidateDistributeInputs(DistributeParams{
		Sender:     sender,
		Recipients: []Wallet{{SecretKey: secretOfLen(0x02, 32), Amount: "0.25"}},
	})
	require.NoError(t, err)
}

func TestValidateQuoteInputs(t *testing.T) {
	good := QuoteParams{Mint: testMint, Side: "buy", Amount: "1.5", Protocol: ProtocolJupiter}
	require.NoError(t, ValidateQuoteInputs(good))

	p := good
	p.Side = "hold"
	require.Error(t, ValidateQuoteInputs(p))
}
