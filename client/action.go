package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ActionDescriptor is the discovery document served on GET.
type ActionDescriptor struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Label       string `json:"label"`
	Links       struct {
		Actions []LinkedAction `json:"actions"`
	} `json:"links"`
}

// LinkedAction is one parameterized action template from the descriptor.
type LinkedAction struct {
	Label      string `json:"label"`
	Href       string `json:"href"`
	Parameters []struct {
		Name     string `json:"name"`
		Label    string `json:"label"`
		Required bool   `json:"required"`
	} `json:"parameters"`
}

// TransferResponse is the success payload for a built transfer: the unsigned
// transaction in base64 plus a human-readable summary. The transaction still
// needs to be signed by the account and submitted to the network.
type TransferResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message"`
}

// Client is the HTTP client for the blinkd action service.
type Client struct {
	baseURL    string
	actionPath string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new action service client.
func NewClient(baseURL, actionPath string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		actionPath: actionPath,
		httpClient: httpClient,
		logger:     logger,
	}
}

// GetAction fetches the action descriptor.
func (c *Client) GetAction(ctx context.Context) (*ActionDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+c.actionPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var descriptor ActionDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptor); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &descriptor, nil
}

// BuildTransfer asks the server to build an unsigned transfer transaction
// moving amount SOL from account to the recipient.
func (c *Client) BuildTransfer(ctx context.Context, account, to, amount string) (*TransferResponse, error) {
	body, err := json.Marshal(map[string]string{"account": account})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("to", to)
	q.Set("amount", amount)
	u := c.baseURL + c.actionPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var transfer TransferResponse
	if err := json.NewDecoder(resp.Body).Decode(&transfer); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("transfer built", "to", to, "amount", amount)
	return &transfer, nil
}

// parseErrorResponse attempts to parse an error response from the server.
// Error bodies carry the shape {"message": "..."}.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Message string `json:"message"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Errorf("request failed: %s", errResp.Message)
}
