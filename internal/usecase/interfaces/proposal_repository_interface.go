package interfaces

import (
	"context"

	"flowtier/internal/domain/entities"
)

//go:generate mockgen -source=proposal_repository_interface.go -destination=mocks/mock_proposal_repository.go -package=mock_interfaces

// IProposalRepository is the document store: one whole JSON document per
// sanitized slug.
//
// Conventions (mirrors Get-returns-zero-value-when-missing):
//   - Get returns a zero document and a nil error when no file exists; callers
//     test with IsZero().
//   - Save overwrites the whole document atomically (temp file + rename); a
//     concurrent reader never observes a partial file. Two writers racing on
//     the same slug is last-write-wins.
type IProposalRepository interface {
	Exists(ctx context.Context, slug string) (bool, error)
	Get(ctx context.Context, slug string) (entities.ProposalDocument, error)
	Save(ctx context.Context, doc entities.ProposalDocument) (entities.ProposalDocument, error)
	List(ctx context.Context) ([]entities.ProposalSummary, error)
	Delete(ctx context.Context, slug string) (bool, error)

	// NextProposalID returns the next sequential per-year human-readable id,
	// e.g. "FT-2026-0007".
	NextProposalID(ctx context.Context, year int) (string, error)
}
