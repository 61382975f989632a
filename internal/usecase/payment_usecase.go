package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase/interfaces"
)

var (
	ErrNoAmountDue         = errors.New("proposal has no amount due")
	ErrAlreadyPaid         = errors.New("proposal already paid")
	ErrMissingSessionID    = errors.New("missing checkout session id")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrPaymentGateway      = errors.New("payment gateway failure")
	ErrGatewayUnavailable  = errors.New("payment gateway not configured")
)

// IPaymentUseCase covers the two payment-side lifecycle transitions: opening
// a hosted checkout for the due-now amount and verifying/recording a
// completed payment.

type IPaymentUseCase interface {
	CreateCheckoutSession(ctx context.Context, rawSlug string) (entities.CheckoutSession, error)
	VerifyAndRecordPayment(ctx context.Context, rawSlug, sessionID string) (entities.Payment, error)
}

type PaymentUseCase struct {
	repo    interfaces.IProposalRepository
	gateway interfaces.IPaymentGateway
	sink    interfaces.INotificationSink
	baseURL string
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IProposalRepository, gateway interfaces.IPaymentGateway, sink interfaces.INotificationSink, baseURL string) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, gateway: gateway, sink: sink, baseURL: strings.TrimRight(baseURL, "/")}
}

func (u *PaymentUseCase) CreateCheckoutSession(ctx context.Context, rawSlug string) (entities.CheckoutSession, error) {
	clean, err := sanitizeSlug(rawSlug)
	if err != nil {
		return entities.CheckoutSession{}, err
	}

	doc, err := u.repo.Get(ctx, clean)
	if err != nil {
		log.Printf("[checkout][usecase] load failed slug=%s err=%v", clean, err)
		return entities.CheckoutSession{}, err
	}
	if doc.IsZero() {
		return entities.CheckoutSession{}, ErrProposalNotFound
	}
	if doc.Payment != nil {
		log.Printf("[checkout][usecase] rejected, already paid slug=%s", clean)
		return entities.CheckoutSession{}, ErrAlreadyPaid
	}
	// The no-amount-due check runs before any gateway traffic.
	if doc.Pricing.DueNowCents <= 0 {
		log.Printf("[checkout][usecase] rejected, nothing due slug=%s due_now_cents=%d", clean, doc.Pricing.DueNowCents)
		return entities.CheckoutSession{}, ErrNoAmountDue
	}
	if u.gateway == nil {
		log.Printf("[checkout][usecase] gateway not configured slug=%s", clean)
		return entities.CheckoutSession{}, ErrGatewayUnavailable
	}

	req := entities.CheckoutRequest{
		AmountCents:   doc.Pricing.DueNowCents,
		Currency:      doc.Pricing.Currency,
		Description:   checkoutDescription(doc),
		CustomerEmail: doc.Client.Email,
		SuccessURL:    u.baseURL + "/" + clean + "?payment=success",
		CancelURL:     u.baseURL + "/" + clean + "?payment=cancelled",
		Metadata: map[string]any{
			"slug":        doc.Slug,
			"proposal_id": doc.ProposalID,
		},
	}

	sess, err := u.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		log.Printf("[checkout][usecase] gateway create failed slug=%s err=%v", clean, err)
		return entities.CheckoutSession{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	log.Printf("[checkout][usecase] session created slug=%s session_id=%s amount_cents=%d", clean, sess.ID, req.AmountCents)
	return sess, nil
}

func (u *PaymentUseCase) VerifyAndRecordPayment(ctx context.Context, rawSlug, sessionID string) (entities.Payment, error) {
	clean, err := sanitizeSlug(rawSlug)
	if err != nil {
		return entities.Payment{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return entities.Payment{}, ErrMissingSessionID
	}

	doc, err := u.repo.Get(ctx, clean)
	if err != nil {
		log.Printf("[payment][usecase] load failed slug=%s err=%v", clean, err)
		return entities.Payment{}, err
	}
	if doc.IsZero() {
		return entities.Payment{}, ErrProposalNotFound
	}
	if doc.Payment != nil && doc.Payment.SessionID != sessionID {
		log.Printf("[payment][usecase] rejected, paid with different session slug=%s recorded=%s got=%s", clean, doc.Payment.SessionID, sessionID)
		return entities.Payment{}, ErrAlreadyPaid
	}

	if u.gateway == nil {
		log.Printf("[payment][usecase] gateway not configured slug=%s", clean)
		return entities.Payment{}, ErrGatewayUnavailable
	}

	// Always re-verify with the gateway, even on a repeat call for the
	// session already on file.
	status, err := u.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		log.Printf("[payment][usecase] gateway retrieve failed slug=%s session_id=%s err=%v", clean, sessionID, err)
		return entities.Payment{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if !status.Paid {
		log.Printf("[payment][usecase] session not paid slug=%s session_id=%s", clean, sessionID)
		return entities.Payment{}, ErrPaymentNotCompleted
	}

	currency := status.Currency
	if currency == "" {
		currency = doc.Pricing.Currency
	}

	payment := entities.Payment{
		SessionID:   sessionID,
		Reference:   status.Reference,
		AmountCents: status.AmountCents,
		Currency:    currency,
		PayerEmail:  status.PayerEmail,
		PaidAt:      time.Now().UTC(),
	}

	// Recording is a set, not an accumulate: a repeat verify rewrites the
	// identical record and fires no second notification.
	repeat := doc.Payment != nil
	if repeat {
		payment.PaidAt = doc.Payment.PaidAt
	}

	doc.Payment = &payment
	doc.Status = entities.ProposalStatusPaid

	if _, err := u.repo.Save(ctx, doc); err != nil {
		log.Printf("[payment][usecase] save failed slug=%s session_id=%s err=%v", clean, sessionID, err)
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] recorded slug=%s session_id=%s amount_cents=%d repeat=%t", clean, sessionID, payment.AmountCents, repeat)

	if !repeat {
		payload := lifecyclePayload(doc)
		payload["session_id"] = payment.SessionID
		payload["payment_reference"] = payment.Reference
		payload["amount_cents"] = payment.AmountCents
		payload["payer_email"] = payment.PayerEmail
		u.sink.Notify(ctx, EventProposalPaid, payload)
	}
	return payment, nil
}

func checkoutDescription(doc entities.ProposalDocument) string {
	name := doc.Project.Name
	if name == "" {
		name = doc.Client.DisplayName()
	}
	if name == "" {
		return fmt.Sprintf("Proposal %s", doc.ProposalID)
	}
	return fmt.Sprintf("Proposal %s - %s", doc.ProposalID, name)
}
