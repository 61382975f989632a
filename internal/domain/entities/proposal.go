package entities

import "time"

// ProposalStatus represents the lifecycle of a proposal document.
//
// Domain notes:
//   - The proposal-service is the source of truth for proposal/lifecycle state.
//   - Transitions only move forward: pending -> signed -> paid. "paid" is
//     terminal. A document update never regresses the stored status.

type ProposalStatus string

const (
	ProposalStatusPending ProposalStatus = "pending"
	ProposalStatusSigned  ProposalStatus = "signed"
	ProposalStatusPaid    ProposalStatus = "paid"
)

// Rank orders statuses for monotonicity checks. Unknown statuses rank lowest
// so a malformed value can never shadow a recorded signature or payment.
func (s ProposalStatus) Rank() int {
	switch s {
	case ProposalStatusPending:
		return 1
	case ProposalStatusSigned:
		return 2
	case ProposalStatusPaid:
		return 3
	default:
		return 0
	}
}

// MaxStatus returns the further-along of two statuses.
func MaxStatus(a, b ProposalStatus) ProposalStatus {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Signature captures an electronic acceptance. Once recorded it is never
// erased by a plain document update; the only code path that writes it is the
// sign transition.
type Signature struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Data     string    `json:"signature_data,omitempty"`
	Kind     string    `json:"signature_kind,omitempty"`
	SignedAt time.Time `json:"signed_at"`
	IP       string    `json:"ip"`
}

const (
	SignatureKindTyped = "typed"
	SignatureKindDrawn = "drawn"
)

// Payment records a verified checkout. Recording is a set, not an accumulate:
// re-verifying the same gateway session rewrites the identical record.
type Payment struct {
	SessionID   string    `json:"session_id"`
	Reference   string    `json:"payment_reference"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	PayerEmail  string    `json:"payer_email,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
}

type Client struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// DisplayName prefers the company name for list views.
func (c Client) DisplayName() string {
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}

type Project struct {
	Name string `json:"name"`
}

// ContentBlock holds free-form proposal copy. Draft is the operator's input;
// Final is the refined text filled in by the (out of scope) builder pipeline.
type ContentBlock struct {
	Draft string  `json:"draft"`
	Final *string `json:"final"`
}

type System struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	DraftNotes   string   `json:"draft_notes,omitempty"`
	FinalCopy    *string  `json:"final_copy"`
	Deliverables []string `json:"deliverables,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Image        string   `json:"image,omitempty"`
}

type ScopeOfWork struct {
	DraftBullets []string `json:"draft_bullets,omitempty"`
	FinalBullets []string `json:"final_bullets,omitempty"`
}

type Milestone struct {
	Title string `json:"title"`
	When  string `json:"when"`
}

type Timeline struct {
	Milestones []Milestone `json:"milestones,omitempty"`
}

type Settings struct {
	Tone          string `json:"tone,omitempty"`
	Industry      string `json:"industry,omitempty"`
	ShowImages    bool   `json:"show_images"`
	PayButtonText string `json:"pay_button_text,omitempty"`
}

// ProposalDocument is the unit of storage, one JSON file per slug.
//
// Storage model:
//   - key: slug (immutable once a file exists for it)
//   - whole-document read/write; the repository never patches fields in place
//
// Monetary representation: integer minor currency units (cents) everywhere.
type ProposalDocument struct {
	ProposalID  string         `json:"proposal_id"`
	Slug        string         `json:"slug"`
	CreatedDate string         `json:"created_date"`
	Client      Client         `json:"client"`
	Project     Project        `json:"project"`
	Problem     ContentBlock   `json:"problem"`
	Solution    ContentBlock   `json:"solution"`
	Systems     []System       `json:"systems,omitempty"`
	ScopeOfWork ScopeOfWork    `json:"scope_of_work"`
	Timeline    Timeline       `json:"timeline"`
	Pricing     Pricing        `json:"pricing"`
	Terms       string         `json:"terms_template,omitempty"`
	Settings    Settings       `json:"settings"`
	Status      ProposalStatus `json:"status,omitempty"`
	Signature   *Signature     `json:"signature,omitempty"`
	Payment     *Payment       `json:"payment,omitempty"`

	// Server-side metadata. ReceivedAt is set when the document is first
	// persisted and preserved across updates; list ordering ties break on it.
	ReceivedAt time.Time `json:"_received_at"`
	Source     string    `json:"_source,omitempty"`
}

// IsZero reports whether the document came back empty from the store
// (missing file). Slug is mandatory on every stored document.
func (d ProposalDocument) IsZero() bool {
	return d.Slug == ""
}

// DeriveStatus computes the forward-most status implied by the recorded
// lifecycle facts. The declared status field never outranks evidence, and
// evidence never downgrades a declared status.
func (d ProposalDocument) DeriveStatus() ProposalStatus {
	derived := ProposalStatusPending
	if d.Signature != nil {
		derived = ProposalStatusSigned
	}
	if d.Payment != nil {
		derived = ProposalStatusPaid
	}
	return MaxStatus(derived, d.Status)
}

// Normalize brings a document read from disk (any on-disk era) into the one
// canonical in-memory shape: migrated pricing items, recomputed totals and a
// consistent status.
func (d *ProposalDocument) Normalize() {
	d.Pricing.normalize()
	d.Status = d.DeriveStatus()
}

// ProposalSummary is the list-view projection of a stored document.
type ProposalSummary struct {
	Slug          string         `json:"slug"`
	ProposalID    string         `json:"proposal_id"`
	ClientName    string         `json:"client_name"`
	ClientCompany string         `json:"client_company"`
	ProjectName   string         `json:"project_name"`
	CreatedDate   string         `json:"created_date"`
	Status        ProposalStatus `json:"status"`
	DueNowCents   int64          `json:"due_now_cents"`
	URL           string         `json:"url"`

	// receivedAt is the list tie-breaker; unexported so it never leaks
	// into API responses.
	receivedAt time.Time
}

// SummaryOf projects a document for list views.
func SummaryOf(d ProposalDocument) ProposalSummary {
	return ProposalSummary{
		Slug:          d.Slug,
		ProposalID:    d.ProposalID,
		ClientName:    d.Client.Name,
		ClientCompany: d.Client.Company,
		ProjectName:   d.Project.Name,
		CreatedDate:   d.CreatedDate,
		Status:        d.DeriveStatus(),
		DueNowCents:   d.Pricing.DueNowCents,
		URL:           "/" + d.Slug,
		receivedAt:    d.ReceivedAt,
	}
}

// ReceivedAt exposes the tie-breaker for sorting without making it part of
// the JSON projection.
func (s ProposalSummary) ReceivedAt() time.Time {
	return s.receivedAt
}
