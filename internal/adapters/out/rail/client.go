// Package rail is the HTTP client of the external payment rail that moves
// payout money.
package rail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	railName       = "payment rail"
	transfersPath  = "/v1/transfers"
	maxErrorBody   = 512
	defaultTimeout = 10 * time.Second
)

type transferRequest struct {
	PayoutID      string `json:"payout_id"`
	RecipientID   string `json:"recipient_id"`
	RecipientType string `json:"recipient_type"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

type transferResponse struct {
	Reference string `json:"reference"`
}

// Client implements ports.PaymentRail. The payout id travels as the
// Idempotency-Key header, so a resubmitted payout never moves money twice.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A zero timeout selects the default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubmitPayout posts one transfer and returns the rail's reference. Every
// failure, including non-2xx answers, is an errs.ExternalRailError.
func (c *Client) SubmitPayout(ctx context.Context, instruction ports.PayoutInstruction) (string, error) {
	body, err := json.Marshal(transferRequest{
		PayoutID:      instruction.PayoutID.String(),
		RecipientID:   instruction.RecipientID.String(),
		RecipientType: instruction.RecipientType.String(),
		Amount:        instruction.Amount.String(),
		Currency:      instruction.Currency,
	})
	if err != nil {
		return "", errs.NewExternalRailError(railName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transfersPath, bytes.NewReader(body))
	if err != nil {
		return "", errs.NewExternalRailError(railName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", instruction.PayoutID.String())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.NewExternalRailError(railName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", errs.NewExternalRailError(railName,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	var decoded transferResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil && !errors.Is(err, io.EOF) {
		return "", errs.NewExternalRailError(railName, fmt.Errorf("decode response: %w", err))
	}

	return decoded.Reference, nil
}
