package client

import (
	"context"
	"fmt"

	"github.com/brojonat/tradewind/bundle"
)

// BatchResult aggregates per-item outcomes of a multi-item operation.
// CompletedThrough is the index of the last item that finished; -1 means
// none. On failure the completed results are returned alongside the error,
// matching the bundle-level retention policy.
type BatchResult struct {
	Results          []*bundle.Outcome `json:"results"`
	CompletedThrough int               `json:"completed_through"`
}

// BatchDistribute distributes SOL to many recipients by grouping them into
// outer groups of at most three and running each group through the full
// fetch → sign → bundle → submit pipeline, with a pause between groups. The
// first group failure aborts the remainder; completed group results are
// retained.
func (c *Client) BatchDistribute(ctx context.Context, params DistributeParams) (*BatchResult, error) {
	if err := ValidateDistributeInputs(params); err != nil {
		return nil, err
	}

	groups := chunkWallets(params.Recipients, distributeGroupSize)
	res := &BatchResult{CompletedThrough: -1}
	for gi, group := range groups {
		out, err := c.Distribute(ctx, DistributeParams{Sender: params.Sender, Recipients: group})
		if err != nil {
			return res, fmt.Errorf("group %d of %d: %w", gi+1, len(groups), err)
		}
		res.Results = append(res.Results, out)
		res.CompletedThrough = gi

		if gi < len(groups)-1 {
			if err := bundle.Sleep(ctx, c.groupPause); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// BatchMix mixes SOL to each recipient in turn, one recipient per hop, with
// a pause between hops. Completed hop results survive a later failure.
func (c *Client) BatchMix(ctx context.Context, params MixParams) (*BatchResult, error) {
	if err := ValidateMixInputs(params); err != nil {
		return nil, err
	}

	res := &BatchResult{CompletedThrough: -1}
	for i, recipient := range params.Recipients {
		out, err := c.Mix(ctx, params.Sender, recipient)
		if err != nil {
			return res, fmt.Errorf("recipient %d of %d: %w", i+1, len(params.Recipients), err)
		}
		res.Results = append(res.Results, out)
		res.CompletedThrough = i

		if i < len(params.Recipients)-1 {
			if err := bundle.Sleep(ctx, c.groupPause); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// BatchBurn burns tokens across several wallets, one item at a time, with a
// pause between items.
func (c *Client) BatchBurn(ctx context.Context, items []BurnParams) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Msg: "must not be empty"}
	}
	for i, item := range items {
		if err := ValidateBurnInputs(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	res := &BatchResult{CompletedThrough: -1}
	for i, item := range items {
		out, err := c.Burn(ctx, item)
		if err != nil {
			return res, fmt.Errorf("item %d of %d: %w", i+1, len(items), err)
		}
		res.Results = append(res.Results, out)
		res.CompletedThrough = i

		if i < len(items)-1 {
			if err := bundle.Sleep(ctx, c.itemPause); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// BatchTransfer runs several token transfers, one item at a time, with a
// pause between items.
func (c *Client) BatchTransfer(ctx context.Context, items []TransferParams) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Msg: "must not be empty"}
	}
	for i, item := range items {
		if err := ValidateTransferInputs(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	res := &BatchResult{CompletedThrough: -1}
	for i, item := range items {
		out, err := c.Transfer(ctx, item)
		if err != nil {
			return res, fmt.Errorf("item %d of %d: %w", i+1, len(items), err)
		}
		res.Results = append(res.Results, out)
		res.CompletedThrough = i

		if i < len(items)-1 {
			if err := bundle.Sleep(ctx, c.itemPause); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// chunkWallets splits wallets into groups of at most size, preserving order.
func chunkWallets(wallets []Wallet, size int) [][]Wallet {
	if size < 1 {
		size = 1
	}
	groups := make([][]Wallet, 0, (len(wallets)+size-1)/size)
	for start := 0; start < len(wallets); start += size {
		end := min(start+size, len(wallets))
		groups = append(groups, wallets[start:end])
	}
	return groups
}
