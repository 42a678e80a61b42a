package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// WebhookNotifier шлет алерт JSON-ом во внешний приемник (Slack-прокси,
// инцидент-менеджер и т.п.).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	OrderID     string    `json:"order_id"`
	UserName    string    `json:"user_name"`
	ServiceType string    `json:"service_type"`
	Kind        string    `json:"kind"`
	Details     string    `json:"details"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

func (n *WebhookNotifier) Deliver(ctx context.Context, evt domain.AlertEvent, order domain.Order) error {
	body, err := json.Marshal(webhookPayload{
		OrderID:     evt.OrderID,
		UserName:    order.UserName,
		ServiceType: order.ServiceType,
		Kind:        string(evt.Kind),
		Details:     evt.Details,
		Status:      string(order.Status),
		Timestamp:   evt.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: receiver returned status %d", resp.StatusCode)
	}
	return nil
}
