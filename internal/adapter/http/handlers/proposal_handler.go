package handlers

import (
	"errors"
	"log"
	"net/http"

	request "flowtier/internal/adapter/http/dto/request"
	response "flowtier/internal/adapter/http/dto/response"
	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase"
	"flowtier/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidProposalPayload = pkg.NewDomainErrorSimple("INVALID_PROPOSAL_INPUT", "Invalid proposal payload", http.StatusBadRequest)

// ProposalHandler handles HTTP requests for proposal documents and the
// document-facing lifecycle transitions (create/update, sign, delete).

type ProposalHandler struct {
	usecase usecase.IProposalUseCase
}

func NewProposalHandler(uc usecase.IProposalUseCase) *ProposalHandler {
	return &ProposalHandler{usecase: uc}
}

// CreateOrUpdate accepts the full proposal document produced by the builder
// (or the automation webhook) and persists it under its sanitized slug.
//
// @Summary  Create or update a proposal
// @Tags     proposals
// @Accept   json
// @Produce  json
// @Success  200 {object} response.CreateProposalResponse
// @Router   /api/proposals [post]
func (h *ProposalHandler) CreateOrUpdate(c *gin.Context) {
	var doc entities.ProposalDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		log.Printf("[proposal][handler] invalid payload err=%v", err)
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	source := c.GetHeader("X-Source")
	if source == "" {
		source = "api"
	}

	saved, err := h.usecase.CreateOrUpdate(c.Request.Context(), doc, source)
	if err != nil {
		log.Printf("[proposal][handler] create-or-update failed raw_slug=%q err=%v", doc.Slug, err)
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[proposal][handler] saved slug=%s proposal_id=%s", saved.Slug, saved.ProposalID)

	c.JSON(http.StatusOK, response.FromSavedProposal(saved))
}

// Get returns the full document JSON for one slug.
//
// @Summary  Fetch a proposal document
// @Tags     proposals
// @Produce  json
// @Param    slug path string true "proposal slug"
// @Success  200 {object} entities.ProposalDocument
// @Router   /api/proposals/{slug} [get]
func (h *ProposalHandler) Get(c *gin.Context) {
	doc, err := h.usecase.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, doc)
}

// List returns summaries of every stored proposal, newest first.
//
// @Summary  List proposals
// @Tags     proposals
// @Produce  json
// @Success  200 {object} response.ListProposalsResponse
// @Router   /api/proposals [get]
func (h *ProposalHandler) List(c *gin.Context) {
	summaries, err := h.usecase.List(c.Request.Context())
	if err != nil {
		log.Printf("[proposal][handler] list failed err=%v", err)
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if summaries == nil {
		summaries = []entities.ProposalSummary{}
	}
	c.JSON(http.StatusOK, response.ListProposalsResponse{Proposals: summaries})
}

// Delete removes a proposal document.
//
// @Summary  Delete a proposal
// @Tags     proposals
// @Produce  json
// @Param    slug path string true "proposal slug"
// @Success  200 {object} response.DeleteProposalResponse
// @Router   /api/proposals/{slug} [delete]
func (h *ProposalHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.usecase.Delete(c.Request.Context(), slug); err != nil {
		log.Printf("[proposal][handler] delete failed raw_slug=%q err=%v", slug, err)
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.DeleteProposalResponse{Success: true, Message: "Proposal deleted"})
}

// Sign records the client's electronic acceptance.
//
// @Summary  Sign a proposal
// @Tags     proposals
// @Accept   json
// @Produce  json
// @Param    slug path string true "proposal slug"
// @Success  200 {object} response.SignResponse
// @Router   /api/proposals/{slug}/sign [post]
func (h *ProposalHandler) Sign(c *gin.Context) {
	var payload request.SignRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[proposal][handler] invalid sign payload err=%v", err)
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	slug := c.Param("slug")
	sig, err := h.usecase.Sign(c.Request.Context(), slug, usecase.SignCommand{
		Name:          payload.Name,
		Email:         payload.Email,
		SignatureData: payload.SignatureData,
		SignatureKind: payload.SignatureKind,
		IP:            c.ClientIP(),
	})
	if err != nil {
		log.Printf("[proposal][handler] sign failed raw_slug=%q err=%v", slug, err)
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[proposal][handler] signed slug=%s signer=%s", slug, sig.Name)

	c.JSON(http.StatusOK, response.SignResponse{Success: true, Signature: sig})
}

func mapProposalError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrMissingSlug):
		return pkg.NewDomainErrorSimple("MISSING_SLUG", "Missing required field: slug", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSlug):
		return pkg.NewDomainErrorSimple("INVALID_SLUG", "Invalid slug format", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingSignerName), errors.Is(err, usecase.ErrMissingSignerEmail):
		return pkg.NewDomainErrorSimple("MISSING_SIGNER_INFO", "Name and email are required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSigKind):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE_KIND", "Signature kind must be typed or drawn", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrAlreadySigned):
		return pkg.NewDomainErrorSimple("ALREADY_SIGNED", "Proposal is already signed", http.StatusConflict)
	case errors.Is(err, usecase.ErrProposalLocked):
		return pkg.NewDomainErrorSimple("PROPOSAL_LOCKED", "Proposal is paid and can no longer be edited", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
