package action

import "net/http"

// Kind identifies a failure class in the transfer pipeline. Every kind maps
// to a fixed HTTP status and a client-facing message; validation failures
// report the exact reason, remote faults are surfaced as opaque 500s.
type Kind string

const (
	KindInvalidSender       Kind = "invalid_sender"
	KindMissingParameter    Kind = "missing_parameter"
	KindInvalidRecipient    Kind = "invalid_recipient"
	KindInvalidAmount       Kind = "invalid_amount"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindLedgerUnavailable   Kind = "ledger_unavailable"
	KindInternal            Kind = "internal"
)

// Error is the sole error shape the pipeline produces. Message is safe to
// return to clients verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to its response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidSender, KindMissingParameter, KindInvalidRecipient,
		KindInvalidAmount, KindInsufficientBalance:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorf constructs a pipeline error of the given kind.
func errorf(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
