package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/server/http/dto"
	"github.com/polkiloo/fulfillsync/internal/server/http/middleware"
)

// VerificationHandler proves that a caller controls an order's email.
type VerificationHandler struct {
	facade VerificationFacade
}

// NewVerificationHandler constructs VerificationHandler.
func NewVerificationHandler(facade VerificationFacade) *VerificationHandler {
	return &VerificationHandler{facade: facade}
}

// Start handles POST /api/orders/verification.
func (h *VerificationHandler) Start(c *gin.Context) {
	var req dto.StartVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		abortWithError(c, http.StatusBadRequest, "Missing order ID or email.")
		return
	}

	issued, err := h.facade.StartVerification(c.Request.Context(), req.Query)
	if err != nil {
		abortLookupError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.StartVerificationResponse{
		ChallengeID: issued.ID.String(),
		Email:       issued.MaskedEmail,
		ExpiresAt:   issued.ExpiresAt,
	})
}

// Confirm handles POST /api/orders/verification/confirm.
func (h *VerificationHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Malformed request.")
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(req.ChallengeID))
	if err != nil || strings.TrimSpace(req.Code) == "" {
		abortWithError(c, http.StatusBadRequest, "Challenge id and code are required.")
		return
	}

	token, err := h.facade.ConfirmVerification(c.Request.Context(), id, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCode):
			abortWithError(c, http.StatusUnauthorized, "Invalid verification code.")
		case errors.Is(err, domainErrors.ErrNotFound):
			abortWithError(c, http.StatusNotFound, "Verification challenge not found.")
		case errors.Is(err, domainErrors.ErrChallengeExpired):
			abortWithError(c, http.StatusGone, "Verification code expired, please request a new one.")
		case errors.Is(err, domainErrors.ErrChallengeExhausted):
			abortWithError(c, http.StatusTooManyRequests, "Too many attempts, please request a new code.")
		default:
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	middleware.SetVerificationCookie(c, token.Token, token.ExpiresAt)
	c.JSON(http.StatusOK, dto.ConfirmVerificationResponse{Token: token.Token, ExpiresAt: token.ExpiresAt})
}
