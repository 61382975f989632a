package entities

// PricingType distinguishes one-off line items from recurring ones.
const (
	PricingTypeOneTime      = "one_time"
	PricingTypeSetupMonthly = "setup_monthly"
)

// PricingItem is one line of the pricing table.
//
// Two on-disk eras exist: older documents carry `setup_cents` (plus
// `monthly_cents` for recurring items); newer ones carry `amount_cents` +
// `pricing_type`. normalize() folds both into the canonical
// AmountCents/MonthlyCents pair; SetupCents is kept only to decode legacy
// files and is cleared after migration.
type PricingItem struct {
	Name         string `json:"name"`
	PricingType  string `json:"pricing_type,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
	MonthlyCents int64  `json:"monthly_cents,omitempty"`

	// legacy era
	SetupCents int64 `json:"setup_cents,omitempty"`
}

type Pricing struct {
	Currency          string        `json:"currency"`
	Items             []PricingItem `json:"items,omitempty"`
	TotalSetupCents   int64         `json:"total_setup_cents"`
	TotalMonthlyCents int64         `json:"total_monthly_cents"`
	DueNowCents       int64         `json:"due_now_cents"`
	Notes             string        `json:"notes,omitempty"`
}

func (p *Pricing) normalize() {
	var totalSetup, totalMonthly int64

	for i := range p.Items {
		it := &p.Items[i]

		if it.AmountCents == 0 && it.SetupCents != 0 {
			it.AmountCents = it.SetupCents
		}
		it.SetupCents = 0

		if it.PricingType == "" {
			it.PricingType = PricingTypeOneTime
			if it.MonthlyCents != 0 {
				it.PricingType = PricingTypeSetupMonthly
			}
		}
		if it.PricingType != PricingTypeSetupMonthly {
			it.MonthlyCents = 0
		}

		totalSetup += it.AmountCents
		totalMonthly += it.MonthlyCents
	}

	p.TotalSetupCents = totalSetup
	p.TotalMonthlyCents = totalMonthly
}
