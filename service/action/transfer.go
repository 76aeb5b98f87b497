package action

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// TransferRequest carries the raw inbound fields for a SOL transfer.
// Account arrives in the request body; To and Amount arrive as query
// parameters. All three are untrusted strings until validated.
type TransferRequest struct {
	Account string
	To      string
	Amount  string
}

// ValidatedTransfer is produced only after every validation step passes.
// Lamports is always greater than zero.
type ValidatedTransfer struct {
	Sender    solana.PublicKey
	Recipient solana.PublicKey
	Lamports  uint64
}

// ValidateTransfer runs the ordered validation chain over a raw request.
// Each step short-circuits: the first failure is returned as an *Error and
// no later step runs. Addresses are checked for well-formedness only; on-chain
// existence is not verified here. Self-transfers are permitted.
func ValidateTransfer(req TransferRequest) (*ValidatedTransfer, *Error) {
	sender, err := solana.PublicKeyFromBase58(req.Account)
	if err != nil {
		return nil, errorf(KindInvalidSender, "Invalid account address provided")
	}

	if req.To == "" || req.Amount == "" {
		return nil, errorf(KindMissingParameter, "Missing required parameters: to and amount")
	}

	recipient, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, errorf(KindInvalidRecipient, "Invalid recipient address provided")
	}

	lamports, verr := solToLamports(req.Amount)
	if verr != nil {
		return nil, verr
	}

	return &ValidatedTransfer{
		Sender:    sender,
		Recipient: recipient,
		Lamports:  lamports,
	}, nil
}

// solToLamports converts a decimal SOL amount string to integer lamports by
// floor(amount * LAMPORTS_PER_SOL). The conversion uses exact rational
// arithmetic: float64 multiplication would round 1.000000001 SOL below
// 1000000001 lamports. Fractional lamports are truncated toward zero.
func solToLamports(amount string) (uint64, *Error) {
	// Both ParseFloat and big.Rat accept hexadecimal floats ("0x1p-2");
	// amounts are decimal only.
	if strings.ContainsAny(amount, "xXpP") {
		return 0, errorf(KindInvalidAmount, "Invalid amount: must be a positive number")
	}

	// ParseFloat enforces numeric syntax and rejects strings big.Rat would
	// accept but clients never send (ratios like "1/3").
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errorf(KindInvalidAmount, "Invalid amount: must be a positive number")
	}

	r, ok := new(big.Rat).SetString(amount)
	if !ok || r.Sign() <= 0 {
		return 0, errorf(KindInvalidAmount, "Invalid amount: must be a positive number")
	}

	r.Mul(r, new(big.Rat).SetInt64(int64(solana.LAMPORTS_PER_SOL)))

	// Quo truncates toward zero; r is positive, so this is the floor.
	lamports := new(big.Int).Quo(r.Num(), r.Denom())
	if !lamports.IsUint64() || lamports.Uint64() == 0 {
		return 0, errorf(KindInvalidAmount, "Invalid amount: must be a positive number")
	}

	return lamports.Uint64(), nil
}
