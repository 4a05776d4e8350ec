package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/config"
)

func TestWebhookNotifierDelivers(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.NotifyConfig{
		WebhookURL:         srv.URL,
		EmailFrom:          "ops@example.com",
		SendTimeoutSeconds: 2,
	}, zap.NewNop())

	ok := n.Send(context.Background(), "driver-task-assigned", "driver@example.com", map[string]string{"taskTitle": "Airport pickup"})
	require.True(t, ok)
	require.Equal(t, "driver-task-assigned", got.Template)
	require.Equal(t, "driver@example.com", got.Recipient)
	require.Equal(t, "Airport pickup", got.Vars["taskTitle"])
}

func TestWebhookNotifierSkipsWhenUnconfigured(t *testing.T) {
	n := NewWebhookNotifier(config.NotifyConfig{}, zap.NewNop())
	require.False(t, n.Send(context.Background(), "driver-task-assigned", "driver@example.com", nil))
}

func TestWebhookNotifierReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.NotifyConfig{WebhookURL: srv.URL, SendTimeoutSeconds: 2}, zap.NewNop())
	require.False(t, n.Send(context.Background(), "driver-task-updated", "driver@example.com", nil))
}

func TestWebhookNotifierReportsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	n := NewWebhookNotifier(config.NotifyConfig{WebhookURL: srv.URL, SendTimeoutSeconds: 1}, zap.NewNop())
	require.False(t, n.Send(context.Background(), "driver-task-updated", "driver@example.com", nil))
}
