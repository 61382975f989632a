package response

import (
	"fmt"

	"flowtier/internal/domain/entities"
)

type CreateProposalResponse struct {
	Success bool   `json:"success"`
	Slug    string `json:"slug"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

func FromSavedProposal(doc entities.ProposalDocument) CreateProposalResponse {
	return CreateProposalResponse{
		Success: true,
		Slug:    doc.Slug,
		URL:     "/" + doc.Slug,
		Message: fmt.Sprintf("Proposal created at /%s", doc.Slug),
	}
}

type ListProposalsResponse struct {
	Proposals []entities.ProposalSummary `json:"proposals"`
}

type DeleteProposalResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignResponse struct {
	Success   bool               `json:"success"`
	Signature entities.Signature `json:"signature"`
}
