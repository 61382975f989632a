package entities

// CheckoutRequest carries everything the payment gateway needs to open a
// hosted checkout for a proposal's due-now amount. Metadata is echoed back by
// the gateway and used to reconcile the session with its proposal.
type CheckoutRequest struct {
	AmountCents   int64
	Currency      string
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]any
}

// CheckoutSession is a freshly created hosted-checkout reference: the id the
// service later verifies against, and the URL the client is redirected to.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CheckoutStatus is the gateway's view of a session at verification time.
type CheckoutStatus struct {
	Paid        bool
	AmountCents int64
	Currency    string
	PayerEmail  string
	Reference   string
}
