package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase/interfaces"
	"flowtier/pkg/slug"
)

var (
	ErrMissingSlug        = errors.New("missing slug")
	ErrInvalidSlug        = errors.New("invalid slug")
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrProposalLocked     = errors.New("proposal already paid; content is locked")
	ErrMissingSignerName  = errors.New("signer name is required")
	ErrMissingSignerEmail = errors.New("signer email is required")
	ErrInvalidSigKind     = errors.New("invalid signature kind")
	ErrAlreadySigned      = errors.New("proposal already signed")
)

// Lifecycle events delivered to the notification sink.
const (
	EventProposalCreated = "proposal_created"
	EventProposalUpdated = "proposal_updated"
	EventProposalSigned  = "proposal_signed"
	EventProposalPaid    = "proposal_paid"
)

// SignCommand carries everything the sign transition records.
type SignCommand struct {
	Name          string
	Email         string
	SignatureData string
	SignatureKind string
	IP            string
}

// IProposalUseCase is the proposal lifecycle engine for the document-facing
// transitions. It is the only code path that sets status, signature and
// payment on a stored document.
//
// Lifecycle: pending -> signed -> paid, monotonic.
//   - create/update copies signature/payment forward from the stored version
//     and never downgrades status
//   - a paid document rejects further content edits
//   - re-signing a signed document is rejected

type IProposalUseCase interface {
	CreateOrUpdate(ctx context.Context, doc entities.ProposalDocument, source string) (entities.ProposalDocument, error)
	GetBySlug(ctx context.Context, rawSlug string) (entities.ProposalDocument, error)
	List(ctx context.Context) ([]entities.ProposalSummary, error)
	Delete(ctx context.Context, rawSlug string) error
	Sign(ctx context.Context, rawSlug string, cmd SignCommand) (entities.Signature, error)
}

type ProposalUseCase struct {
	repo interfaces.IProposalRepository
	sink interfaces.INotificationSink
}

var _ IProposalUseCase = (*ProposalUseCase)(nil)

func NewProposalUseCase(repo interfaces.IProposalRepository, sink interfaces.INotificationSink) *ProposalUseCase {
	return &ProposalUseCase{repo: repo, sink: sink}
}

func sanitizeSlug(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingSlug
	}
	clean, err := slug.Sanitize(raw)
	if err != nil {
		return "", ErrInvalidSlug
	}
	return clean, nil
}

func (u *ProposalUseCase) CreateOrUpdate(ctx context.Context, doc entities.ProposalDocument, source string) (entities.ProposalDocument, error) {
	clean, err := sanitizeSlug(doc.Slug)
	if err != nil {
		log.Printf("[proposal][usecase] create-or-update rejected raw_slug=%q err=%v", doc.Slug, err)
		return entities.ProposalDocument{}, err
	}
	doc.Slug = clean

	existing, err := u.repo.Get(ctx, clean)
	if err != nil {
		log.Printf("[proposal][usecase] load failed slug=%s err=%v", clean, err)
		return entities.ProposalDocument{}, err
	}

	now := time.Now().UTC()
	event := EventProposalCreated

	if existing.IsZero() {
		doc.ReceivedAt = now
		if doc.CreatedDate == "" {
			doc.CreatedDate = now.Format("2006-01-02")
		}
		if doc.Status == "" {
			doc.Status = entities.ProposalStatusPending
		}
		if doc.ProposalID == "" {
			id, err := u.repo.NextProposalID(ctx, now.Year())
			if err != nil {
				log.Printf("[proposal][usecase] id allocation failed slug=%s err=%v", clean, err)
				return entities.ProposalDocument{}, err
			}
			doc.ProposalID = id
		}
	} else {
		if existing.Payment != nil {
			log.Printf("[proposal][usecase] update rejected, document paid slug=%s", clean)
			return entities.ProposalDocument{}, ErrProposalLocked
		}
		event = EventProposalUpdated

		// An update never erases recorded lifecycle facts and never moves
		// the document backwards.
		doc.Signature = existing.Signature
		doc.Payment = existing.Payment
		doc.Status = entities.MaxStatus(doc.Status, existing.Status)
		doc.ReceivedAt = existing.ReceivedAt
		if doc.ProposalID == "" {
			doc.ProposalID = existing.ProposalID
		}
		if doc.CreatedDate == "" {
			doc.CreatedDate = existing.CreatedDate
		}
	}

	doc.Source = source
	doc.Normalize()

	saved, err := u.repo.Save(ctx, doc)
	if err != nil {
		log.Printf("[proposal][usecase] save failed slug=%s err=%v", clean, err)
		return entities.ProposalDocument{}, err
	}
	log.Printf("[proposal][usecase] saved slug=%s proposal_id=%s status=%s event=%s", saved.Slug, saved.ProposalID, saved.Status, event)

	u.sink.Notify(ctx, event, lifecyclePayload(saved))
	return saved, nil
}

func (u *ProposalUseCase) GetBySlug(ctx context.Context, rawSlug string) (entities.ProposalDocument, error) {
	clean, err := sanitizeSlug(rawSlug)
	if err != nil {
		return entities.ProposalDocument{}, err
	}

	doc, err := u.repo.Get(ctx, clean)
	if err != nil {
		return entities.ProposalDocument{}, err
	}
	if doc.IsZero() {
		return entities.ProposalDocument{}, ErrProposalNotFound
	}
	return doc, nil
}

func (u *ProposalUseCase) List(ctx context.Context) ([]entities.ProposalSummary, error) {
	return u.repo.List(ctx)
}

func (u *ProposalUseCase) Delete(ctx context.Context, rawSlug string) error {
	clean, err := sanitizeSlug(rawSlug)
	if err != nil {
		return err
	}

	removed, err := u.repo.Delete(ctx, clean)
	if err != nil {
		log.Printf("[proposal][usecase] delete failed slug=%s err=%v", clean, err)
		return err
	}
	if !removed {
		return ErrProposalNotFound
	}
	log.Printf("[proposal][usecase] deleted slug=%s", clean)
	return nil
}

func (u *ProposalUseCase) Sign(ctx context.Context, rawSlug string, cmd SignCommand) (entities.Signature, error) {
	clean, err := sanitizeSlug(rawSlug)
	if err != nil {
		return entities.Signature{}, err
	}

	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	if cmd.Name == "" {
		return entities.Signature{}, ErrMissingSignerName
	}
	if cmd.Email == "" {
		return entities.Signature{}, ErrMissingSignerEmail
	}

	kind := cmd.SignatureKind
	if kind == "" {
		kind = entities.SignatureKindTyped
	}
	if kind != entities.SignatureKindTyped && kind != entities.SignatureKindDrawn {
		return entities.Signature{}, ErrInvalidSigKind
	}

	doc, err := u.repo.Get(ctx, clean)
	if err != nil {
		log.Printf("[proposal][usecase] sign load failed slug=%s err=%v", clean, err)
		return entities.Signature{}, err
	}
	if doc.IsZero() {
		return entities.Signature{}, ErrProposalNotFound
	}
	if doc.Signature != nil {
		log.Printf("[proposal][usecase] sign rejected, already signed slug=%s", clean)
		return entities.Signature{}, ErrAlreadySigned
	}

	sig := entities.Signature{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Data:     cmd.SignatureData,
		Kind:     kind,
		SignedAt: time.Now().UTC(),
		IP:       cmd.IP,
	}
	doc.Signature = &sig
	doc.Status = entities.MaxStatus(doc.Status, entities.ProposalStatusSigned)

	if _, err := u.repo.Save(ctx, doc); err != nil {
		log.Printf("[proposal][usecase] sign save failed slug=%s err=%v", clean, err)
		return entities.Signature{}, err
	}
	log.Printf("[proposal][usecase] signed slug=%s signer=%s status=%s", clean, sig.Name, doc.Status)

	payload := lifecyclePayload(doc)
	payload["signer_name"] = sig.Name
	payload["signer_email"] = sig.Email
	payload["signed_at"] = sig.SignedAt.Format(time.RFC3339)
	u.sink.Notify(ctx, EventProposalSigned, payload)

	return sig, nil
}

func lifecyclePayload(doc entities.ProposalDocument) map[string]any {
	return map[string]any{
		"slug":           doc.Slug,
		"url":            "/" + doc.Slug,
		"proposal_id":    doc.ProposalID,
		"status":         string(doc.Status),
		"client_name":    doc.Client.Name,
		"client_company": doc.Client.Company,
		"client_email":   doc.Client.Email,
		"project_name":   doc.Project.Name,
		"due_now_cents":  doc.Pricing.DueNowCents,
		"currency":       doc.Pricing.Currency,
	}
}
