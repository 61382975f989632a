package interfaces

import "context"

//go:generate mockgen -source=notification_sink_interface.go -destination=mocks/mock_notification_sink.go -package=mock_interfaces

// INotificationSink delivers lifecycle events to the operator-configured
// webhook. Delivery is best-effort and fire-and-forget: failures are logged
// inside the sink and never surfaced, so a lifecycle transition that already
// persisted stays successful regardless of what the webhook does.
type INotificationSink interface {
	Notify(ctx context.Context, event string, data map[string]any)
}
