// Package notify delivers templated driver notifications. Delivery is
// best effort end to end: a failed or unconfigured send is logged and
// reported to the caller as "not notified", never as an error, so the
// write that triggered the notification always stands.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/config"
)

// Notifier sends one templated message and reports whether it was
// actually delivered.
type Notifier interface {
	Send(ctx context.Context, templateID, recipient string, vars map[string]string) bool
}

type webhookNotifier struct {
	cfg    config.NotifyConfig
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier posts template payloads to the configured webhook.
// With no webhook URL configured every send is a logged no-op.
func NewWebhookNotifier(cfg config.NotifyConfig, logger *zap.Logger) Notifier {
	return &webhookNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SendTimeout()},
		logger: logger,
	}
}

type webhookPayload struct {
	Template  string            `json:"template"`
	Recipient string            `json:"recipient"`
	From      string            `json:"from,omitempty"`
	Vars      map[string]string `json:"vars,omitempty"`
}

func (n *webhookNotifier) Send(ctx context.Context, templateID, recipient string, vars map[string]string) bool {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		n.logger.Debug("notification skipped, no webhook configured",
			zap.String("template", templateID),
			zap.String("recipient", recipient))
		return false
	}
	if strings.TrimSpace(recipient) == "" {
		n.logger.Warn("notification skipped, empty recipient", zap.String("template", templateID))
		return false
	}

	body, err := json.Marshal(webhookPayload{
		Template:  templateID,
		Recipient: recipient,
		From:      n.cfg.EmailFrom,
		Vars:      vars,
	})
	if err != nil {
		n.logger.Warn("notification payload encode failed", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("notification request build failed", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("notification send failed",
			zap.String("template", templateID),
			zap.String("recipient", recipient),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Warn("notification rejected by webhook",
			zap.String("template", templateID),
			zap.Int("status", resp.StatusCode))
		return false
	}

	n.logger.Info("notification sent",
		zap.String("template", templateID),
		zap.String("recipient", recipient))
	return true
}
