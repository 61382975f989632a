package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
var ErrUnknownCheckoutSession = errors.New("unknown checkout session")

// MercadoPagoGateway implements the hosted-checkout boundary on Mercado Pago
// Checkout Pro: a session is a preference (the init point is the redirect
// URL) and verification resolves the preference's external reference against
// the payment search API.
//
// Amounts cross the SDK boundary in major units; everything the service
// stores stays integer cents.
type MercadoPagoGateway struct {
	preferences preference.Client
	payments    payment.Client

	mockMode bool
	mockMu   sync.Mutex
	mockSess map[string]entities.CheckoutRequest
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, mockSess: map[string]entities.CheckoutRequest{}}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (g *MercadoPagoGateway) CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error) {
	if g != nil && g.mockMode {
		return g.mockCreate(req), nil
	}
	if g == nil || g.preferences == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return entities.CheckoutSession{}, ErrMercadoPagoGatewayNotConfigured
	}

	externalRef, _ := req.Metadata["slug"].(string)
	log.Printf("[payment][gateway] create start external_reference=%s amount_cents=%d", externalRef, req.AmountCents)

	resp, err := g.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:      req.Description,
				Quantity:   1,
				CurrencyID: strings.ToUpper(req.Currency),
				UnitPrice:  centsToMajor(req.AmountCents),
			},
		},
		Payer: &preference.PayerRequest{Email: req.CustomerEmail},
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Pending: req.CancelURL,
			Failure: req.CancelURL,
		},
		AutoReturn:        "approved",
		ExternalReference: externalRef,
		Metadata:          req.Metadata,
	})
	if err != nil {
		log.Printf("[payment][gateway] sdk preference create failed err=%v", err)
		return entities.CheckoutSession{}, err
	}
	log.Printf("[payment][gateway] create success preference_id=%s", resp.ID)

	return entities.CheckoutSession{ID: resp.ID, URL: resp.InitPoint}, nil
}

func (g *MercadoPagoGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (entities.CheckoutStatus, error) {
	if g != nil && g.mockMode {
		return g.mockRetrieve(sessionID)
	}
	if g == nil || g.preferences == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return entities.CheckoutStatus{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] retrieve start preference_id=%s", sessionID)

	pref, err := g.preferences.Get(ctx, sessionID)
	if err != nil {
		log.Printf("[payment][gateway] sdk preference get failed preference_id=%s err=%v", sessionID, err)
		return entities.CheckoutStatus{}, err
	}

	res, err := g.payments.Search(ctx, payment.SearchRequest{
		Filters: map[string]string{
			"external_reference": pref.ExternalReference,
			"sort":               "date_created",
			"criteria":           "desc",
		},
	})
	if err != nil {
		log.Printf("[payment][gateway] sdk payment search failed preference_id=%s err=%v", sessionID, err)
		return entities.CheckoutStatus{}, err
	}

	for _, p := range res.Results {
		if p.Status != "approved" {
			continue
		}
		log.Printf("[payment][gateway] retrieve success preference_id=%s payment_id=%d status=approved", sessionID, p.ID)
		return entities.CheckoutStatus{
			Paid:        true,
			AmountCents: majorToCents(p.TransactionAmount),
			Currency:    strings.ToLower(p.CurrencyID),
			PayerEmail:  p.Payer.Email,
			Reference:   strconv.Itoa(p.ID),
		}, nil
	}

	log.Printf("[payment][gateway] retrieve success preference_id=%s status=unpaid", sessionID)
	return entities.CheckoutStatus{Paid: false}, nil
}

// Mock mode keeps created sessions in memory and reports every one of them as
// approved on retrieval, which lets the whole sign-then-pay flow run without
// credentials.
func (g *MercadoPagoGateway) mockCreate(req entities.CheckoutRequest) entities.CheckoutSession {
	id := "mock-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)

	g.mockMu.Lock()
	g.mockSess[id] = req
	g.mockMu.Unlock()

	log.Printf("[payment][gateway] mock create success session_id=%s amount_cents=%d", id, req.AmountCents)
	return entities.CheckoutSession{ID: id, URL: fmt.Sprintf("https://checkout.invalid/%s", id)}
}

func (g *MercadoPagoGateway) mockRetrieve(sessionID string) (entities.CheckoutStatus, error) {
	g.mockMu.Lock()
	req, ok := g.mockSess[sessionID]
	g.mockMu.Unlock()

	if !ok {
		log.Printf("[payment][gateway] mock retrieve unknown session_id=%s", sessionID)
		return entities.CheckoutStatus{}, ErrUnknownCheckoutSession
	}
	log.Printf("[payment][gateway] mock retrieve success session_id=%s status=approved", sessionID)
	return entities.CheckoutStatus{
		Paid:        true,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		PayerEmail:  req.CustomerEmail,
		Reference:   sessionID + "-payment",
	}, nil
}

func centsToMajor(cents int64) float64 {
	return float64(cents) / 100
}

func majorToCents(major float64) int64 {
	return int64(math.Round(major * 100))
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
