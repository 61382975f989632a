package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"flowtier/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// WebhookSink delivers lifecycle events to the configured destination with a
// single POST. Delivery is strictly best-effort: every failure is logged and
// swallowed, because the lifecycle transition that triggered the event has
// already been persisted by the time Notify runs.
type WebhookSink struct {
	settings *Settings
	client   *http.Client
}

var _ interfaces.INotificationSink = (*WebhookSink)(nil)

const defaultTimeout = 10 * time.Second

func NewWebhookSink(settings *Settings) *WebhookSink {
	return &WebhookSink{
		settings: settings,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

type eventEnvelope struct {
	Event     string         `json:"event"`
	EventID   string         `json:"event_id"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

func (s *WebhookSink) Notify(ctx context.Context, event string, data map[string]any) {
	dest := s.settings.URL()
	if dest == "" {
		log.Printf("[notify][sink] skipped, no webhook configured event=%s", event)
		return
	}

	body, err := json.Marshal(eventEnvelope{
		Event:     event,
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
	if err != nil {
		log.Printf("[notify][sink] encode failed event=%s err=%v", event, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dest, bytes.NewReader(body))
	if err != nil {
		log.Printf("[notify][sink] request build failed event=%s err=%v", event, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Source", "flowtier-proposals")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[notify][sink] delivery failed event=%s err=%v", event, err)
		return
	}
	defer resp.Body.Close()

	log.Printf("[notify][sink] delivered event=%s status=%d", event, resp.StatusCode)
}
