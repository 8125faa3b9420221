package solana

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRPCClient returns canned balances keyed by address.
type mockRPCClient struct {
	balances map[string]uint64
	err      error
}

func (m *mockRPCClient) GetBalance(
	_ context.Context,
	account solana.PublicKey,
	_ rpc.CommitmentType,
) (*rpc.GetBalanceResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &rpc.GetBalanceResult{Value: m.balances[account.String()]}, nil
}

const testAddress = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"

func TestGetBalance(t *testing.T) {
	c := NewBalanceClient(&mockRPCClient{
		balances: map[string]uint64{testAddress: 5_000_000_000},
	}, "test", nil, nil)

	balance, err := c.GetBalance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), balance)
}

func TestGetBalance_InvalidAddress(t *testing.T) {
	c := NewBalanceClient(&mockRPCClient{}, "test", nil, nil)

	_, err := c.GetBalance(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestGetBalance_RPCError(t *testing.T) {
	c := NewBalanceClient(&mockRPCClient{err: errors.New("node unavailable")}, "test", nil, nil)

	_, err := c.GetBalance(context.Background(), testAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node unavailable")
}

func TestEnsureFunds(t *testing.T) {
	c := NewBalanceClient(&mockRPCClient{
		balances: map[string]uint64{testAddress: 1_000_000},
	}, "test", nil, nil)

	require.NoError(t, c.EnsureFunds(context.Background(), testAddress, 1_000_000))

	err := c.EnsureFunds(context.Background(), testAddress, 2_000_000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}
