package client

import (
	"context"
	"fmt"

	"github.com/brojonat/tradewind/bundle"
	"github.com/brojonat/tradewind/solana"
)

// Distribute sends SOL from the sender to each recipient wallet in one
// operation. Recipients carry their own amounts and co-sign when the
// prepared transactions require it. When an RPC URL is configured, the
// sender's balance is checked against the total before any transaction is
// fetched.
func (c *Client) Distribute(ctx context.Context, params DistributeParams) (*bundle.Outcome, error) {
	if err := ValidateDistributeInputs(params); err != nil {
		return nil, err
	}

	all := append([]Wallet{params.Sender}, params.Recipients...)
	ids, reg, err := deriveAll(all)
	if err != nil {
		return nil, err
	}

	if c.balances != nil {
		var total uint64
		for _, r := range params.Recipients {
			lamports, err := solana.SOLToLamports(r.Amount)
			if err != nil {
				return nil, err
			}
			total += lamports
		}
		if err := c.balances.EnsureFunds(ctx, ids[0].Address(), total); err != nil {
			return nil, err
		}
	}

	recipients := make([]recipientPayload, len(params.Recipients))
	for i, r := range params.Recipients {
		recipients[i] = recipientPayload{
			Address: ids[i+1].Address(),
			Amount:  r.Amount,
		}
	}
	payload := distributeRequest{
		Sender:     ids[0].Address(),
		Recipients: recipients,
	}
	return c.runPipeline(ctx, "distribute", "wallets/distribute", payload, ids[0], reg)
}

// Consolidate drains the source wallets into the destination. Every source
// must co-sign its own withdrawal, so all sources go into the registry.
func (c *Client) Consolidate(ctx context.Context, params ConsolidateParams) (*bundle.Outcome, error) {
	if err := ValidateConsolidateInputs(params); err != nil {
		return nil, err
	}

	all := append([]Wallet{params.Destination}, params.Sources...)
	ids, reg, err := deriveAll(all)
	if err != nil {
		return nil, err
	}

	payload := consolidateRequest{
		Destination: ids[0].Address(),
		Sources:     addressesOf(ids[1:]),
	}
	return c.runPipeline(ctx, "consolidate", "wallets/consolidate", payload, ids[0], reg)
}

// Mix sends SOL from the sender to exactly one recipient through the mixing
// endpoint. Multi-recipient mixes go through BatchMix, which paces one
// recipient per hop.
func (c *Client) Mix(ctx context.Context, sender, recipient Wallet) (*bundle.Outcome, error) {
	if err := ValidateMixInputs(MixParams{Sender: sender, Recipients: []Wallet{recipient}}); err != nil {
		return nil, err
	}

	ids, reg, err := deriveAll([]Wallet{sender, recipient})
	if err != nil {
		return nil, err
	}

	payload := distributeRequest{
		Sender: ids[0].Address(),
		Recipients: []recipientPayload{
			{Address: ids[1].Address(), Amount: recipient.Amount},
		},
	}
	return c.runPipeline(ctx, "mix", "wallets/mix", payload, ids[0], reg)
}

// EnsureSenderFunds is a standalone pre-flight balance check for callers
// that want to validate funding before a batch run. It requires an RPC URL.
func (c *Client) EnsureSenderFunds(ctx context.Context, sender Wallet, totalSOL string) error {
	if c.balances == nil {
		return fmt.Errorf("no RPC URL configured for balance checks")
	}
	ids, _, err := deriveAll([]Wallet{sender})
	if err != nil {
		return err
	}
	lamports, err := solana.SOLToLamports(totalSOL)
	if err != nil {
		return err
	}
	return c.balances.EnsureFunds(ctx, ids[0].Address(), lamports)
}
