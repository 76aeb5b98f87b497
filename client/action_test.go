package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actionPath = "/api/actions/transfer-sol"

func TestGetAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, actionPath, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"icon":        "https://blink.example.com/icon.png",
			"title":       "Send SOL",
			"description": "Transfer SOL to another Solana wallet",
			"label":       "Send",
			"links": map[string]interface{}{
				"actions": []map[string]interface{}{
					{
						"label": "Send SOL",
						"href":  actionPath + "?to={to}&amount={amount}",
						"parameters": []map[string]interface{}{
							{"name": "to", "label": "Recipient wallet address", "required": true},
							{"name": "amount", "label": "Amount of SOL to send", "required": true},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, actionPath, nil, nil)
	descriptor, err := c.GetAction(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Send SOL", descriptor.Title)
	require.Len(t, descriptor.Links.Actions, 1)
	assert.Len(t, descriptor.Links.Actions[0].Parameters, 2)
}

func TestBuildTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "recipient-address", r.URL.Query().Get("to"))
		assert.Equal(t, "1.5", r.URL.Query().Get("amount"))

		var body struct {
			Account string `json:"account"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sender-address", body.Account)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TransferResponse{
			Transaction: "base64-payload",
			Message:     "Send 1.5 SOL to recipient",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, actionPath, nil, nil)
	transfer, err := c.BuildTransfer(context.Background(), "sender-address", "recipient-address", "1.5")
	require.NoError(t, err)

	assert.Equal(t, "base64-payload", transfer.Transaction)
	assert.Equal(t, "Send 1.5 SOL to recipient", transfer.Message)
}

func TestBuildTransfer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid recipient address provided"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, actionPath, nil, nil)
	_, err := c.BuildTransfer(context.Background(), "sender", "bad", "1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid recipient address provided")
}

func TestBuildTransfer_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, actionPath, nil, nil)
	_, err := c.BuildTransfer(context.Background(), "sender", "recipient", "1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
