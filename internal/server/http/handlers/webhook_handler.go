package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/server/http/dto"
)

// MaxWebhookBody bounds the size of a payment webhook delivery.
const MaxWebhookBody = 1 << 20

// WebhookHandler receives payment gateway notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Payment handles POST /api/webhooks/payment. The body is passed on byte for
// byte so the signature can be checked against exactly what was sent.
func (h *WebhookHandler) Payment(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Payload too large.")
			return
		}
		abortWithError(c, http.StatusBadRequest, "Unreadable payload.")
		return
	}

	result, err := h.facade.IngestPayment(c.Request.Context(), body, c.Request.Header)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, domainErrors.ErrUnauthorized):
			abortWithError(c, http.StatusUnauthorized, "Invalid signature.")
		case errors.Is(err, domainErrors.ErrBadPayload):
			abortWithError(c, http.StatusBadRequest, "Malformed payload.")
		case errors.Is(err, domainErrors.ErrInvalidOrderID):
			abortWithError(c, http.StatusBadRequest, "Invalid order ID.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Webhook verification unavailable.")
		}
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{
		Status:  string(result.Outcome),
		OrderID: result.BaseOrderID,
	})
}
