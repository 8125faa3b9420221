package client

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mr-tron/base58"

	"github.com/brojonat/tradewind/signer"
)

// Validators reject malformed input before any network call. Each public
// operation re-runs its validator internally, so callers may skip the
// explicit call; running it first avoids burning an API round trip.

func validAddress(field, addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return &ValidationError{Field: field, Msg: "not valid base58"}
	}
	if len(raw) != 32 {
		return &ValidationError{Field: field, Msg: fmt.Sprintf("decodes to %d bytes, want 32", len(raw))}
	}
	return nil
}

func validAmount(field, amount string) error {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return &ValidationError{Field: field, Msg: fmt.Sprintf("%q is not numeric", amount)}
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return &ValidationError{Field: field, Msg: fmt.Sprintf("%q must be a positive number", amount)}
	}
	return nil
}

func validSecret(field, secret string) error {
	if _, err := signer.DeriveIdentity(secret); err != nil {
		return &ValidationError{Field: field, Msg: err.Error()}
	}
	return nil
}

func validProtocol(protocol string) error {
	if !supportedProtocols[protocol] {
		return &ValidationError{Field: "protocol", Msg: fmt.Sprintf("%q is not supported", protocol)}
	}
	return nil
}

func validSlippage(percent float64) error {
	if percent < 0 || percent > 100 {
		return &ValidationError{Field: "slippagePercent", Msg: "must be between 0 and 100"}
	}
	return nil
}

func validWalletList(field string, wallets []Wallet) error {
	if len(wallets) == 0 {
		return &ValidationError{Field: field, Msg: "must not be empty"}
	}
	for i, w := range wallets {
		if err := validSecret(fmt.Sprintf("%s[%d].secretKey", field, i), w.SecretKey); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBuyInputs checks a buy request without touching the network.
func ValidateBuyInputs(p BuyParams) error {
	if err := validWalletList("wallets", p.Wallets); err != nil {
		return err
	}
	if err := validAddress("mint", p.Mint); err != nil {
		return err
	}
	if err := validAmount("amountSol", p.AmountSOL); err != nil {
		return err
	}
	if err := validSlippage(p.SlippagePercent); err != nil {
		return err
	}
	return validProtocol(p.Protocol)
}

// ValidateSellInputs checks a sell request without touching the network.
func ValidateSellInputs(p SellParams) error {
	if err := validWalletList("wallets", p.Wallets); err != nil {
		return err
	}
	if err := validAddress("mint", p.Mint); err != nil {
		return err
	}
	if p.SellPercent < 1 || p.SellPercent > 100 {
		return &ValidationError{Field: "sellPercent", Msg: "must be between 1 and 100"}
	}
	if err := validSlippage(p.SlippagePercent); err != nil {
		return err
	}
	return validProtocol(p.Protocol)
}

// ValidateCreateInputs checks a token creation request.
func ValidateCreateInputs(p CreateParams) error {
	if err := validSecret("wallet.secretKey", p.Wallet.SecretKey); err != nil {
		return err
	}
	for i, w := range p.BuyerWallets {
		if err := validSecret(fmt.Sprintf("buyerWallets[%d].secretKey", i), w.SecretKey); err != nil {
			return err
		}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if p.Symbol == "" || len(p.Symbol) > 10 {
		return &ValidationError{Field: "symbol", Msg: "must be 1-10 characters"}
	}
	if p.InitialBuySOL != "" {
		if err := validAmount("initialBuySol", p.InitialBuySOL); err != nil {
			return err
		}
	}
	return validProtocol(p.Protocol)
}

// ValidateTransferInputs checks a token transfer request.
func ValidateTransferInputs(p TransferParams) error {
	if err := validSecret("wallet.secretKey", p.Wallet.SecretKey); err != nil {
		return err
	}
	if err := validAddress("recipient", p.Recipient); err != nil {
		return err
	}
	if err := validAddress("mint", p.Mint); err != nil {
		return err
	}
	return validAmount("amount", p.Amount)
}

// ValidateBurnInputs checks a token burn request.
func ValidateBurnInputs(p BurnParams) error {
	if err := validSecret("wallet.secretKey", p.Wallet.SecretKey); err != nil {
		return err
	}
	if err := validAddress("mint", p.Mint); err != nil {
		return err
	}
	return validAmount("amount", p.Amount)
}

// ValidateDistributeInputs checks a SOL distribution request. Every
// recipient needs a well-formed secret and a positive amount.
func ValidateDistributeInputs(p DistributeParams) error {
	if err := validSecret("sender.secretKey", p.Sender.SecretKey); err != nil {
		return err
	}
	if len(p.Recipients) == 0 {
		return &ValidationError{Field: "recipients", Msg: "must not be empty"}
	}
	for i, r := range p.Recipients {
		if err := validSecret(fmt.Sprintf("recipients[%d].secretKey", i), r.SecretKey); err != nil {
			return err
		}
		if err := validAmount(fmt.Sprintf("recipients[%d].amount", i), r.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ValidateConsolidateInputs checks a SOL consolidation request.
func ValidateConsolidateInputs(p ConsolidateParams) error {
	if err := validSecret("destination.secretKey", p.Destination.SecretKey); err != nil {
		return err
	}
	return validWalletList("sources", p.Sources)
}

// ValidateMixInputs checks a SOL mixing request.
func ValidateMixInputs(p MixParams) error {
	if err := validSecret("sender.secretKey", p.Sender.SecretKey); err != nil {
		return err
	}
	if len(p.Recipients) == 0 {
		return &ValidationError{Field: "recipients", Msg: "must not be empty"}
	}
	for i, r := range p.Recipients {
		if err := validSecret(fmt.Sprintf("recipients[%d].secretKey", i), r.SecretKey); err != nil {
			return err
		}
		if err := validAmount(fmt.Sprintf("recipients[%d].amount", i), r.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuoteInputs checks a route quote request.
func ValidateQuoteInputs(p QuoteParams) error {
	if err := validAddress("mint", p.Mint); err != nil {
		return err
	}
	if p.Side != "buy" && p.Side != "sell" {
		return &ValidationError{Field: "side", Msg: `must be "buy" or "sell"`}
	}
	if err := validAmount("amount", p.Amount); err != nil {
		return err
	}
	return validProtocol(p.Protocol)
}
