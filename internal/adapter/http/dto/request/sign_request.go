package request

// SignRequest is the payload the proposal page posts when the client accepts.
// Field-level validation (required name/email, known signature kind) lives in
// the use case so the API returns the same errors regardless of transport.
type SignRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	SignatureData string `json:"signature_data"`
	SignatureKind string `json:"signature_kind"`
}
