// Package solana wraps the Solana RPC surface the SDK needs for pre-flight
// balance checks.
package solana

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/brojonat/tradewind/metrics"
)

// RPCClient is the subset of the Solana RPC surface used here. Keeping it an
// interface lets tests stub the RPC layer without hitting real nodes.
type RPCClient interface {
	GetBalance(
		ctx context.Context,
		account solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetBalanceResult, error)
}

// realRPCClient adapts the solana-go RPC client to the RPCClient interface.
type realRPCClient struct {
	client *rpc.Client
}

// NewRPCClient creates an RPCClient backed by the solana-go RPC client.
// For premium endpoints that require API keys, include the key in the URL.
func NewRPCClient(rpcURL string) RPCClient {
	return &realRPCClient{client: rpc.New(rpcURL)}
}

func (r *realRPCClient) GetBalance(
	ctx context.Context,
	account solana.PublicKey,
	commitment rpc.CommitmentType,
) (*rpc.GetBalanceResult, error) {
	return r.client.GetBalance(ctx, account, commitment)
}

// BalanceClient answers native-balance queries. It is used only for
// pre-flight validation; the signing and bundling pipeline never depends on
// it.
type BalanceClient struct {
	rpc      RPCClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string // endpoint label for metrics
}

// NewBalanceClient creates a balance client. m and logger may be nil.
func NewBalanceClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger) *BalanceClient {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &BalanceClient{
		rpc:      rpcClient,
		logger:   logger,
		metrics:  m,
		endpoint: endpoint,
	}
}

// GetBalance returns the native balance of address in lamports.
func (c *BalanceClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", address, err)
	}

	start := time.Now()
	out, err := c.rpc.GetBalance(ctx, pub, rpc.CommitmentConfirmed)
	elapsed := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetBalance", status, c.endpoint, elapsed)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "balance query failed", "address", address, "error", err)
		return 0, fmt.Errorf("failed to get balance for %s: %w", address, err)
	}

	c.logger.DebugContext(ctx, "balance fetched", "address", address, "lamports", out.Value)
	return out.Value, nil
}

// EnsureFunds fails when address holds fewer than required lamports.
func (c *BalanceClient) EnsureFunds(ctx context.Context, address string, required uint64) error {
	balance, err := c.GetBalance(ctx, address)
	if err != nil {
		return err
	}
	if balance < required {
		return fmt.Errorf("insufficient funds: %s holds %d lamports, need %d", address, balance, required)
	}
	return nil
}
