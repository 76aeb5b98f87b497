package nats

import "time"

// TransferBuiltEvent represents a successfully built transfer transaction.
// It is published to the subject "actions.transfer.{sender}" in JetStream.
// The event describes an unsigned transaction handed back to the wallet;
// whether it is ever signed or lands on chain is not tracked here.
type TransferBuiltEvent struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Lamports  uint64 `json:"lamports"`
	Network   string `json:"network"` // "mainnet" or "devnet"

	CreatedAt time.Time `json:"created_at"`
}
