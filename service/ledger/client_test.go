package ledger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRPCClient implements RPCClient with canned responses and records the
// commitment each call was made at.
type mockRPCClient struct {
	balance             uint64
	balanceErr          error
	blockhash           solana.Hash
	blockhashErr        error
	balanceCommitment   rpc.CommitmentType
	blockhashCommitment rpc.CommitmentType
}

func (m *mockRPCClient) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	m.balanceCommitment = commitment
	if m.balanceErr != nil {
		return nil, m.balanceErr
	}
	return &rpc.GetBalanceResult{Value: m.balance}, nil
}

func (m *mockRPCClient) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	m.blockhashCommitment = commitment
	if m.blockhashErr != nil {
		return nil, m.blockhashErr
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            m.blockhash,
			LastValidBlockHeight: 12345,
		},
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGetBalance(t *testing.T) {
	mock := &mockRPCClient{balance: 5_000_000_000}
	c := NewClient(mock, "devnet", nil, testLogger())

	owner := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	snapshot, err := c.GetBalance(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, owner, snapshot.Owner)
	assert.Equal(t, uint64(5_000_000_000), snapshot.Lamports)
	assert.Equal(t, rpc.CommitmentFinalized, mock.balanceCommitment)
}

func TestGetBalance_RPCError(t *testing.T) {
	mock := &mockRPCClient{balanceErr: errors.New("connection refused")}
	c := NewClient(mock, "devnet", nil, testLogger())

	owner := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	snapshot, err := c.GetBalance(context.Background(), owner)
	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Contains(t, err.Error(), "get balance")
}

func TestGetLatestBlockhash(t *testing.T) {
	hash := solana.MustHashFromBase58("SysvarC1ock11111111111111111111111111111111")
	mock := &mockRPCClient{blockhash: hash}
	c := NewClient(mock, "mainnet", nil, testLogger())

	got, err := c.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, got)
	assert.Equal(t, rpc.CommitmentFinalized, mock.blockhashCommitment)
}

func TestGetLatestBlockhash_RPCError(t *testing.T) {
	mock := &mockRPCClient{blockhashErr: errors.New("timeout")}
	c := NewClient(mock, "mainnet", nil, testLogger())

	got, err := c.GetLatestBlockhash(context.Background())
	require.Error(t, err)
	assert.Equal(t, solana.Hash{}, got)
}
