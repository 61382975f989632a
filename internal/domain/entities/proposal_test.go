package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRanking(t *testing.T) {
	assert.Equal(t, ProposalStatusPaid, MaxStatus(ProposalStatusSigned, ProposalStatusPaid))
	assert.Equal(t, ProposalStatusPaid, MaxStatus(ProposalStatusPaid, ProposalStatusPending))
	assert.Equal(t, ProposalStatusSigned, MaxStatus(ProposalStatusSigned, ""))
	assert.Equal(t, ProposalStatusPending, MaxStatus("", ProposalStatusPending))
}

func TestDeriveStatus(t *testing.T) {
	var doc ProposalDocument
	assert.Equal(t, ProposalStatusPending, doc.DeriveStatus())

	doc.Signature = &Signature{Name: "Jane Doe", SignedAt: time.Now()}
	assert.Equal(t, ProposalStatusSigned, doc.DeriveStatus())

	doc.Payment = &Payment{SessionID: "sess-1"}
	assert.Equal(t, ProposalStatusPaid, doc.DeriveStatus())

	// A declared status never regresses below the recorded evidence, and a
	// stale declared "pending" never shadows a payment.
	doc.Status = ProposalStatusPending
	assert.Equal(t, ProposalStatusPaid, doc.DeriveStatus())

	doc = ProposalDocument{Status: ProposalStatusPaid}
	assert.Equal(t, ProposalStatusPaid, doc.DeriveStatus())
}

func TestPricingNormalizeLegacyItems(t *testing.T) {
	raw := `{
		"currency": "usd",
		"items": [
			{"name": "Build", "setup_cents": 150000},
			{"name": "Care plan", "setup_cents": 50000, "monthly_cents": 20000},
			{"name": "Audit", "pricing_type": "one_time", "amount_cents": 30000}
		],
		"due_now_cents": 5000
	}`

	var p Pricing
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	p.normalize()

	require.Len(t, p.Items, 3)

	assert.Equal(t, PricingTypeOneTime, p.Items[0].PricingType)
	assert.Equal(t, int64(150000), p.Items[0].AmountCents)
	assert.Zero(t, p.Items[0].SetupCents)

	assert.Equal(t, PricingTypeSetupMonthly, p.Items[1].PricingType)
	assert.Equal(t, int64(50000), p.Items[1].AmountCents)
	assert.Equal(t, int64(20000), p.Items[1].MonthlyCents)

	assert.Equal(t, int64(230000), p.TotalSetupCents)
	assert.Equal(t, int64(20000), p.TotalMonthlyCents)
	assert.Equal(t, int64(5000), p.DueNowCents)
}

func TestPricingNormalizeDropsMonthlyOnOneTime(t *testing.T) {
	p := Pricing{Items: []PricingItem{{Name: "x", PricingType: PricingTypeOneTime, AmountCents: 100, MonthlyCents: 999}}}
	p.normalize()
	assert.Zero(t, p.Items[0].MonthlyCents)
	assert.Equal(t, int64(100), p.TotalSetupCents)
	assert.Zero(t, p.TotalMonthlyCents)
}

func TestNormalizeRecomputesTotalsAndStatus(t *testing.T) {
	doc := ProposalDocument{
		Slug:      "acme",
		Pricing:   Pricing{Items: []PricingItem{{Name: "a", SetupCents: 100}}, TotalSetupCents: 42},
		Signature: &Signature{Name: "Jane Doe"},
	}
	doc.Normalize()
	assert.Equal(t, int64(100), doc.Pricing.TotalSetupCents)
	assert.Equal(t, ProposalStatusSigned, doc.Status)
}

func TestClientDisplayName(t *testing.T) {
	assert.Equal(t, "Acme", Client{Name: "Jane", Company: "Acme"}.DisplayName())
	assert.Equal(t, "Jane", Client{Name: "Jane"}.DisplayName())
}
