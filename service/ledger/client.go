package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/blinkd/service/metrics"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type RPCClient interface {
	GetBalance(
		ctx context.Context,
		account solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetBalanceResult, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)
}

// BalanceSnapshot is a point-in-time view of an account's lamport balance.
// Snapshots are fetched fresh per request and never cached; ledger state can
// change between calls.
type BalanceSnapshot struct {
	Owner    solana.PublicKey
	Lamports uint64
}

// Client exposes the two ledger reads the transfer pipeline needs: a balance
// lookup and a recent blockhash. It wraps the RPC client with logging and
// metrics. No call is retried; any RPC failure is terminal for the request.
type Client struct {
	rpc      RPCClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string // RPC endpoint identifier for metrics (e.g., "mainnet", "devnet")
}

// NewClient creates a new ledger client.
// The endpoint parameter is used for metrics labeling (e.g., "mainnet", "devnet").
// If metrics is nil, no metrics will be recorded.
func NewClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:      rpcClient,
		logger:   logger,
		metrics:  m,
		endpoint: endpoint,
	}
}

// GetBalance fetches the current lamport balance for an account at finalized
// commitment.
func (c *Client) GetBalance(ctx context.Context, owner solana.PublicKey) (*BalanceSnapshot, error) {
	start := time.Now()
	out, err := c.rpc.GetBalance(ctx, owner, rpc.CommitmentFinalized)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		c.logger.ErrorContext(ctx, "failed to get balance",
			"account", owner.String(),
			"error", err,
		)
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetBalance", status, c.endpoint, duration)
	}

	if err != nil {
		return nil, fmt.Errorf("get balance for %s: %w", owner, err)
	}

	c.logger.DebugContext(ctx, "fetched balance",
		"account", owner.String(),
		"lamports", out.Value,
	)

	return &BalanceSnapshot{Owner: owner, Lamports: out.Value}, nil
}

// GetLatestBlockhash fetches a recent blockhash at finalized commitment for
// use as a transaction's recent block reference.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	start := time.Now()
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		c.logger.ErrorContext(ctx, "failed to get latest blockhash", "error", err)
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetLatestBlockhash", status, c.endpoint, duration)
	}

	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}

	c.logger.DebugContext(ctx, "fetched latest blockhash",
		"blockhash", out.Value.Blockhash.String(),
		"last_valid_block_height", out.Value.LastValidBlockHeight,
	)

	return out.Value.Blockhash, nil
}
