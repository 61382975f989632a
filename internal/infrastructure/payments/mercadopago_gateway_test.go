package payments

import (
	"context"
	"errors"
	"testing"

	"flowtier/internal/domain/entities"
)

func TestGatewayMockMode(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "1")

	g, err := NewMercadoPagoGateway("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := entities.CheckoutRequest{
		AmountCents:   5000,
		Currency:      "usd",
		Description:   "Proposal FT-2026-0001 - Intake automation",
		CustomerEmail: "jane@x.com",
		Metadata:      map[string]any{"slug": "acme"},
	}
	sess, err := g.CreateCheckoutSession(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID == "" || sess.URL == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	status, err := g.RetrieveCheckoutSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Paid || status.AmountCents != 5000 || status.Currency != "usd" || status.PayerEmail != "jane@x.com" {
		t.Fatalf("unexpected status: %+v", status)
	}

	if _, err := g.RetrieveCheckoutSession(context.Background(), "no-such-session"); !errors.Is(err, ErrUnknownCheckoutSession) {
		t.Fatalf("expected ErrUnknownCheckoutSession, got %v", err)
	}
}

func TestGatewayRequiresAccessToken(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")

	if _, err := NewMercadoPagoGateway(""); !errors.Is(err, ErrMissingMercadoPagoAccessToken) {
		t.Fatalf("expected ErrMissingMercadoPagoAccessToken, got %v", err)
	}
}

func TestAmountConversion(t *testing.T) {
	if got := centsToMajor(5000); got != 50.0 {
		t.Fatalf("centsToMajor(5000) = %v", got)
	}
	if got := majorToCents(50.0); got != 5000 {
		t.Fatalf("majorToCents(50.0) = %d", got)
	}
	// Float noise from the wire must not shave a cent off.
	if got := majorToCents(49.999999999); got != 5000 {
		t.Fatalf("majorToCents(49.999999999) = %d", got)
	}
}
