package response

import "flowtier/internal/domain/entities"

// CheckoutResponse mirrors entities.CheckoutSession on the wire; the type
// exists so the handler layer never leaks gateway internals by accident.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func FromCheckoutSession(s entities.CheckoutSession) CheckoutResponse {
	return CheckoutResponse{SessionID: s.ID, URL: s.URL}
}

type VerifyPaymentResponse struct {
	Success bool             `json:"success"`
	Payment entities.Payment `json:"payment"`
}

type WebhookConfigResponse struct {
	URL        string `json:"url"`
	Configured bool   `json:"configured"`
}
