package handlers

import (
	"errors"
	"log"
	"net/http"

	request "flowtier/internal/adapter/http/dto/request"
	response "flowtier/internal/adapter/http/dto/response"
	"flowtier/internal/infrastructure/notify"
	"flowtier/pkg"

	"github.com/gin-gonic/gin"
)

// WebhookConfigHandler exposes the outbound notification destination so the
// admin dashboard can point lifecycle events at an automation endpoint.

type WebhookConfigHandler struct {
	settings *notify.Settings
}

func NewWebhookConfigHandler(settings *notify.Settings) *WebhookConfigHandler {
	return &WebhookConfigHandler{settings: settings}
}

// Get returns the current notification destination.
//
// @Summary  Get the webhook destination
// @Tags     webhooks
// @Produce  json
// @Success  200 {object} response.WebhookConfigResponse
// @Router   /api/webhook-config [get]
func (h *WebhookConfigHandler) Get(c *gin.Context) {
	url := h.settings.URL()
	c.JSON(http.StatusOK, response.WebhookConfigResponse{URL: url, Configured: url != ""})
}

// Set updates the notification destination. An empty URL disables delivery.
//
// @Summary  Set the webhook destination
// @Tags     webhooks
// @Accept   json
// @Produce  json
// @Success  200 {object} response.WebhookConfigResponse
// @Router   /api/webhook-config [post]
func (h *WebhookConfigHandler) Set(c *gin.Context) {
	var payload request.WebhookConfigRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_WEBHOOK_INPUT", "Invalid webhook payload", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	if err := h.settings.SetURL(payload.URL); err != nil {
		log.Printf("[webhook][handler] set destination failed err=%v", err)
		var appErr *pkg.AppError
		if errors.Is(err, notify.ErrInvalidWebhookURL) {
			appErr = pkg.NewDomainErrorSimple("INVALID_WEBHOOK_URL", "Webhook URL must be http or https", http.StatusBadRequest)
		} else {
			appErr = pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		}
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[webhook][handler] destination updated configured=%t", payload.URL != "")

	url := h.settings.URL()
	c.JSON(http.StatusOK, response.WebhookConfigResponse{URL: url, Configured: url != ""})
}
