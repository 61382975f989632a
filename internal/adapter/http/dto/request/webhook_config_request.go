package request

// WebhookConfigRequest updates the notification destination. An empty URL
// disables delivery.
type WebhookConfigRequest struct {
	URL string `json:"url"`
}
