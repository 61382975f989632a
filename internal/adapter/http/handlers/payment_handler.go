package handlers

import (
	"errors"
	"log"
	"net/http"

	request "flowtier/internal/adapter/http/dto/request"
	response "flowtier/internal/adapter/http/dto/response"
	"flowtier/internal/usecase"
	"flowtier/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_PAYMENT_INPUT", "Invalid payment payload", http.StatusBadRequest)

// PaymentHandler handles hosted-checkout creation and payment verification.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreateCheckout starts a hosted checkout session for the amount due now.
//
// @Summary  Create a checkout session
// @Tags     payments
// @Produce  json
// @Param    slug path string true "proposal slug"
// @Success  200 {object} response.CheckoutResponse
// @Router   /api/proposals/{slug}/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	slug := c.Param("slug")
	session, err := h.usecase.CreateCheckoutSession(c.Request.Context(), slug)
	if err != nil {
		log.Printf("[payment][handler] checkout failed raw_slug=%q err=%v", slug, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] checkout session created slug=%s session_id=%s", slug, session.ID)

	c.JSON(http.StatusOK, response.FromCheckoutSession(session))
}

// VerifyPayment confirms a checkout session with the gateway and records the
// payment on the proposal. Safe to call repeatedly for the same session.
//
// @Summary  Verify a checkout session and record payment
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    slug path string true "proposal slug"
// @Success  200 {object} response.VerifyPaymentResponse
// @Router   /api/proposals/{slug}/verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var payload request.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[payment][handler] invalid verify payload err=%v", err)
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	slug := c.Param("slug")
	pay, err := h.usecase.VerifyAndRecordPayment(c.Request.Context(), slug, payload.SessionID)
	if err != nil {
		log.Printf("[payment][handler] verify failed raw_slug=%q session_id=%s err=%v", slug, payload.SessionID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] payment recorded slug=%s session_id=%s", slug, payload.SessionID)

	c.JSON(http.StatusOK, response.VerifyPaymentResponse{Success: true, Payment: pay})
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrMissingSlug), errors.Is(err, usecase.ErrInvalidSlug):
		return pkg.NewDomainErrorSimple("INVALID_SLUG", "Invalid slug format", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingSessionID):
		return pkg.NewDomainErrorSimple("MISSING_SESSION_ID", "Missing required field: session_id", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNoAmountDue):
		return pkg.NewDomainErrorSimple("NO_AMOUNT_DUE", "Proposal has no amount due now", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrAlreadyPaid):
		return pkg.NewDomainErrorSimple("ALREADY_PAID", "Proposal is already paid", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotCompleted):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_COMPLETED", "Payment has not been completed", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrGatewayUnavailable):
		return pkg.NewDomainErrorSimple("GATEWAY_UNAVAILABLE", "Payment gateway is not configured", http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrPaymentGateway):
		return pkg.NewDomainError("GATEWAY_ERROR", "Payment gateway request failed", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
