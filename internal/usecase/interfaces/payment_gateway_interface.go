package interfaces

import (
	"context"

	"flowtier/internal/domain/entities"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/mock_payment_gateway.go -package=mock_interfaces

// IPaymentGateway abstracts the hosted-checkout provider (e.g. Mercado Pago).
//
// The adapter is a thin boundary: it owns no persistent state, performs no
// retries, and surfaces every upstream failure to the caller. All payment
// facts are captured into the ProposalDocument at verification time.
type IPaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (entities.CheckoutStatus, error)
}
