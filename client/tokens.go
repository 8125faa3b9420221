package client

import (
	"context"
	"fmt"

	"github.com/brojonat/tradewind/bundle"
	"github.com/brojonat/tradewind/signer"
)

// Buy fetches buy transactions for the configured wallets, completes their
// signatures, and broadcasts them. The first wallet is the primary buyer.
func (c *Client) Buy(ctx context.Context, params BuyParams) (*bundle.Outcome, error) {
	if err := ValidateBuyInputs(params); err != nil {
		return nil, err
	}
	ids, reg, err := deriveAll(params.Wallets)
	if err != nil {
		return nil, err
	}

	payload := buyRequest{
		Wallets:         addressesOf(ids),
		Mint:            params.Mint,
		AmountSOL:       params.AmountSOL,
		SlippagePercent: params.SlippagePercent,
		Protocol:        params.Protocol,
	}
	return c.runPipeline(ctx, "buy", "tokens/buy", payload, ids[0], reg)
}

// Sell sells a percentage of the wallets' token holdings.
func (c *Client) Sell(ctx context.Context, params SellParams) (*bundle.Outcome, error) {
	if err := ValidateSellInputs(params); err != nil {
		return nil, err
	}
	ids, reg, err := deriveAll(params.Wallets)
	if err != nil {
		return nil, err
	}

	payload := sellRequest{
		Wallets:         addressesOf(ids),
		Mint:            params.Mint,
		SellPercent:     params.SellPercent,
		SlippagePercent: params.SlippagePercent,
		Protocol:        params.Protocol,
	}
	return c.runPipeline(ctx, "sell", "tokens/sell", payload, ids[0], reg)
}

// CreateToken launches a token, optionally bundling first buys from the
// buyer wallets in the same operation.
func (c *Client) CreateToken(ctx context.Context, params CreateParams) (*bundle.Outcome, error) {
	if err := ValidateCreateInputs(params); err != nil {
		return nil, err
	}
	all := append([]Wallet{params.Wallet}, params.BuyerWallets...)
	ids, reg, err := deriveAll(all)
	if err != nil {
		return nil, err
	}

	payload := createRequest{
		Creator:       ids[0].Address(),
		Buyers:        addressesOf(ids[1:]),
		Name:          params.Name,
		Symbol:        params.Symbol,
		Description:   params.Description,
		ImageURL:      params.ImageURL,
		InitialBuySOL: params.InitialBuySOL,
		Protocol:      params.Protocol,
	}
	return c.runPipeline(ctx, "create", "tokens/create", payload, ids[0], reg)
}

// Transfer moves tokens from the wallet to a recipient address.
func (c *Client) Transfer(ctx context.Context, params TransferParams) (*bundle.Outcome, error) {
	if err := ValidateTransferInputs(params); err != nil {
		return nil, err
	}
	primary, err := signer.DeriveIdentity(params.Wallet.SecretKey)
	if err != nil {
		return nil, err
	}

	payload := transferRequest{
		Sender:    primary.Address(),
		Recipient: params.Recipient,
		Mint:      params.Mint,
		Amount:    params.Amount,
	}
	return c.runPipeline(ctx, "transfer", "tokens/transfer", payload, primary, nil)
}

// Burn destroys tokens held by the wallet.
func (c *Client) Burn(ctx context.Context, params BurnParams) (*bundle.Outcome, error) {
	if err := ValidateBurnInputs(params); err != nil {
		return nil, err
	}
	primary, err := signer.DeriveIdentity(params.Wallet.SecretKey)
	if err != nil {
		return nil, err
	}

	payload := burnRequest{
		Wallet: primary.Address(),
		Mint:   params.Mint,
		Amount: params.Amount,
	}
	return c.runPipeline(ctx, "burn", "tokens/burn", payload, primary, nil)
}

// GetQuote fetches a route quote. No transactions are produced or signed.
func (c *Client) GetQuote(ctx context.Context, params QuoteParams) (*Quote, error) {
	if err := ValidateQuoteInputs(params); err != nil {
		return nil, err
	}

	payload := quoteRequest{
		Mint:     params.Mint,
		Side:     params.Side,
		Amount:   params.Amount,
		Protocol: params.Protocol,
	}
	var resp quoteResponse
	if err := c.postJSON(ctx, "tokens/route", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("tokens/route: remote error: %s", resp.Error)
	}
	if resp.Quote == nil {
		return nil, fmt.Errorf("tokens/route: remote returned no quote")
	}
	return resp.Quote, nil
}
