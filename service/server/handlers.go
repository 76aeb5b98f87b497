package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/brojonat/blinkd/service/action"
	"github.com/brojonat/blinkd/service/metrics"
)

const maxRequestBodySize = 1 << 20 // 1MB - plenty for a transfer request

// handleGetAction returns a handler that serves the action descriptor.
// GET /api/actions/transfer-sol
// The descriptor is a pure function of the request's own origin: repeated
// calls with the same origin produce byte-identical bodies.
func handleGetAction(md action.Metadata, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		descriptor := action.NewDescriptor(requestURL(r), md)

		logger.Debug("action descriptor served", "host", r.Host, "path", r.URL.Path)
		writeJSON(w, descriptor, http.StatusOK)
	})
}

// handlePostTransfer returns a handler that runs the transfer pipeline:
// validation, balance check, transaction construction.
// POST /api/actions/transfer-sol?to={address}&amount={decimal} with JSON body {account}
func handlePostTransfer(builder *action.Builder, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Limit request body size to prevent memory exhaustion
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var body struct {
			Account string `json:"account"`
		}

		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if strings.Contains(err.Error(), "http: request body too large") {
				writeActionError(w, "Request body too large: maximum size is 1MB", http.StatusBadRequest)
				return
			}
			// An unparseable body carries no account; the validation chain
			// reports it as an invalid sender below.
			logger.Debug("failed to decode transfer request body", "error", err)
		}

		req := action.TransferRequest{
			Account: body.Account,
			To:      r.URL.Query().Get("to"),
			Amount:  r.URL.Query().Get("amount"),
		}

		validated, aerr := action.ValidateTransfer(req)
		if aerr != nil {
			logger.Debug("transfer request rejected",
				"kind", string(aerr.Kind),
				"to", req.To,
				"amount", req.Amount,
			)
			if m != nil {
				m.RecordActionOutcome(string(aerr.Kind))
			}
			writeActionError(w, aerr.Message, aerr.HTTPStatus())
			return
		}

		result, aerr := builder.BuildTransfer(r.Context(), validated)
		if aerr != nil {
			if aerr.HTTPStatus() >= http.StatusInternalServerError {
				logger.Error("transfer pipeline failed",
					"kind", string(aerr.Kind),
					"sender", validated.Sender.String(),
				)
			}
			if m != nil {
				m.RecordActionOutcome(string(aerr.Kind))
			}
			writeActionError(w, aerr.Message, aerr.HTTPStatus())
			return
		}

		if m != nil {
			m.RecordActionOutcome("success")
		}

		writeJSON(w, transferResponse{
			Transaction: result.Transaction,
			Message:     result.Message,
		}, http.StatusOK)
	})
}

// transferResponse is the JSON success payload for a built transfer.
type transferResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message"`
}

// requestURL reconstructs the request's own absolute URL (origin + path).
// Scheme is taken from the TLS state or a reverse-proxy forwarding header.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return &url.URL{
		Scheme: scheme,
		Host:   r.Host,
		Path:   r.URL.Path,
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeActionError writes a JSON error response. The body shape
// {"message": ...} is the sole error shape returned to clients.
func writeActionError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"message": message,
	})
}
