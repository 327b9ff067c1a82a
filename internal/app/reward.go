package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WinnerNotifier delivers the match-winner reward notification to an
// out-of-process service. Fire-and-forget: failures are logged by callers
// and never reach game state.
type WinnerNotifier interface {
	NotifyWinner(ctx context.Context, username string) error
}

const rewardRequestTimeout = 10 * time.Second

// HTTPWinnerNotifier posts winner notifications to a webhook, signed with
// a shared secret header.
type HTTPWinnerNotifier struct {
	webhookURL string
	secret     string
	client     *http.Client
}

// NewHTTPWinnerNotifier creates a notifier against the given webhook URL.
func NewHTTPWinnerNotifier(webhookURL, secret string) *HTTPWinnerNotifier {
	return &HTTPWinnerNotifier{
		webhookURL: webhookURL,
		secret:     secret,
		client:     &http.Client{Timeout: rewardRequestTimeout},
	}
}

type winnerNotification struct {
	Username string `json:"username"`
}

// NotifyWinner sends one notification for one winning username.
func (n *HTTPWinnerNotifier) NotifyWinner(ctx context.Context, username string) error {
	if n.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(winnerNotification{Username: username})
	if err != nil {
		return fmt.Errorf("build reward payload: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, rewardRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build reward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reward-Secret", n.secret)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("reach reward webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("reward webhook returned status %d", resp.StatusCode)
	}
	return nil
}
