// Package payout provides safe.Transferer implementations that move
// withdrawn value to its receiver.
package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
)

var (
	_ safe.Transferer = (*Webhook)(nil)
	_ safe.Transferer = Log{}
)

// ErrRejected is returned when the payout endpoint refuses a transfer.
var ErrRejected = errors.New("payout rejected by receiver")

// Request is the JSON body posted to the payout webhook.
type Request struct {
	Receiver  string `json:"receiver"`
	Amount    string `json:"amount"`
	Requested int64  `json:"requested_at"`
}

// Webhook delivers payouts by POSTing to an HTTP endpoint.
// A 2xx response accepts the transfer; anything else rejects it.
// Calls are never retried.
type Webhook struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewWebhook creates a webhook transferer for url.
// A nil client uses http.DefaultClient.
func NewWebhook(url string, client *http.Client, timeout time.Duration) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client, timeout: timeout}
}

// Transfer posts the payout and waits for the receiver's verdict.
func (w *Webhook) Transfer(ctx context.Context, receiver models.Address, amount uint64) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	body, err := json.Marshal(Request{
		Receiver:  receiver.String(),
		Amount:    strconv.FormatUint(amount, 10),
		Requested: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode payout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver payout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.WarnContext(ctx, "Payout rejected",
			"receiver", receiver,
			"amount", amount,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(msg))
	}

	slog.InfoContext(ctx, "Payout delivered", "receiver", receiver, "amount", amount)
	return nil
}

// Log accepts every payout and only records it in the log.
// It is used when no payout endpoint is configured.
type Log struct{}

// Transfer logs the payout and succeeds.
func (Log) Transfer(ctx context.Context, receiver models.Address, amount uint64) error {
	slog.InfoContext(ctx, "Payout recorded", "receiver", receiver, "amount", amount)
	return nil
}
