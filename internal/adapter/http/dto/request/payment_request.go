package request

// VerifyPaymentRequest carries the checkout session reference the client was
// redirected back with.
type VerifyPaymentRequest struct {
	SessionID string `json:"session_id"`
}
