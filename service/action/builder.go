package action

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/brojonat/blinkd/service/ledger"
	"github.com/brojonat/blinkd/service/metrics"
	"github.com/brojonat/blinkd/service/nats"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// Ledger is the narrow capability the builder needs from the chain: a fresh
// balance lookup and a recent blockhash. A deterministic fake is substituted
// in tests so the suite never touches a live network.
type Ledger interface {
	GetBalance(ctx context.Context, owner solana.PublicKey) (*ledger.BalanceSnapshot, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// TransferResult is the success payload for a built transfer: the unsigned
// transaction serialized to base64 and a human-readable summary.
type TransferResult struct {
	Transaction string
	Message     string
}

// Builder assembles unsigned SOL transfer transactions from validated
// requests plus ledger state. It performs no retries: any ledger failure is
// terminal for the request.
type Builder struct {
	ledger    Ledger
	network   string // "mainnet" or "devnet", for logging and event labeling
	publisher nats.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewBuilder creates a transfer builder.
// The publisher is optional - if nil, no events are published.
// The metrics is optional - if nil, no metrics are recorded.
func NewBuilder(l Ledger, network string, publisher nats.Publisher, m *metrics.Metrics, logger *slog.Logger) *Builder {
	return &Builder{
		ledger:    l,
		network:   network,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// BuildTransfer checks the sender's balance, fetches a recent blockhash, and
// constructs an unsigned transaction containing exactly one transfer
// instruction with the sender as fee payer. The balance check runs first; on
// insufficient funds the blockhash is never fetched and no transaction is
// constructed. The two ledger reads are sequential.
func (b *Builder) BuildTransfer(ctx context.Context, vt *ValidatedTransfer) (*TransferResult, *Error) {
	snapshot, err := b.ledger.GetBalance(ctx, vt.Sender)
	if err != nil {
		return nil, errorf(KindLedgerUnavailable, "Ledger unavailable, please try again later")
	}

	if vt.Lamports > snapshot.Lamports {
		b.logger.DebugContext(ctx, "insufficient balance for transfer",
			"sender", vt.Sender.String(),
			"requested_lamports", vt.Lamports,
			"balance_lamports", snapshot.Lamports,
		)
		return nil, errorf(KindInsufficientBalance,
			fmt.Sprintf("Insufficient balance: %.4f SOL", float64(snapshot.Lamports)/float64(solana.LAMPORTS_PER_SOL)))
	}

	blockhash, err := b.ledger.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, errorf(KindLedgerUnavailable, "Ledger unavailable, please try again later")
	}

	instruction := system.NewTransferInstruction(
		vt.Lamports,
		vt.Sender,
		vt.Recipient,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhash,
		solana.TransactionPayer(vt.Sender),
	)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to construct transaction",
			"sender", vt.Sender.String(),
			"error", err,
		)
		return nil, errorf(KindInternal, "Internal server error")
	}

	encoded, err := tx.ToBase64()
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to serialize transaction",
			"sender", vt.Sender.String(),
			"error", err,
		)
		return nil, errorf(KindInternal, "Internal server error")
	}

	b.logger.InfoContext(ctx, "transfer transaction built",
		"sender", vt.Sender.String(),
		"recipient", vt.Recipient.String(),
		"lamports", vt.Lamports,
		"network", b.network,
	)
	if b.metrics != nil {
		b.metrics.RecordTransferBuilt(b.network, float64(vt.Lamports))
	}

	b.publishEvent(ctx, vt)

	return &TransferResult{
		Transaction: encoded,
		Message: fmt.Sprintf("Send %s SOL to %s",
			formatSOL(vt.Lamports), elideAddress(vt.Recipient.String())),
	}, nil
}

// publishEvent publishes a transfer-built event if a publisher is configured.
// Publishing is best-effort: a failure is logged and counted but never fails
// the request.
func (b *Builder) publishEvent(ctx context.Context, vt *ValidatedTransfer) {
	if b.publisher == nil {
		return
	}

	event := &nats.TransferBuiltEvent{
		Sender:    vt.Sender.String(),
		Recipient: vt.Recipient.String(),
		Lamports:  vt.Lamports,
		Network:   b.network,
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()
	err := b.publisher.PublishTransferBuilt(ctx, event)
	if b.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		b.metrics.RecordNATSPublish(nats.StreamSubjects, status, time.Since(start).Seconds())
	}
	if err != nil {
		b.logger.WarnContext(ctx, "failed to publish transfer event",
			"sender", event.Sender,
			"error", err,
		)
	}
}

// elideAddress shortens an address to its first and last 8 characters for
// display in response messages.
func elideAddress(address string) string {
	if len(address) <= 16 {
		return address
	}
	return address[:8] + "..." + address[len(address)-8:]
}

// formatSOL renders a lamport amount as a SOL decimal string without
// trailing zeros.
func formatSOL(lamports uint64) string {
	return strconv.FormatFloat(float64(lamports)/float64(solana.LAMPORTS_PER_SOL), 'f', -1, 64)
}
