package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/server/http/dto"
	"github.com/polkiloo/fulfillsync/internal/server/http/middleware"
)

// StatusHandler serves order tracking queries.
type StatusHandler struct {
	facade StatusFacade
}

// NewStatusHandler constructs StatusHandler.
func NewStatusHandler(facade StatusFacade) *StatusHandler {
	return &StatusHandler{facade: facade}
}

// Get handles GET /api/orders/status?query=.
func (h *StatusHandler) Get(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		abortWithError(c, http.StatusBadRequest, "Missing order ID or email.")
		return
	}

	status, err := h.facade.OrderStatus(c.Request.Context(), query, middleware.CurrentToken(c))
	if err != nil {
		abortLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStatusResponse(status))
}

func toStatusResponse(s *model.AggregatedStatus) dto.StatusResponse {
	links := s.ArtifactLinks
	if links == nil {
		links = []string{}
	}
	items := make([]dto.LineItemResponse, 0, len(s.Order.LineItems))
	for _, item := range s.Order.LineItems {
		items = append(items, dto.LineItemResponse{VariantID: item.VariantID})
	}

	return dto.StatusResponse{
		IsFulfilled:          s.IsFulfilled,
		IsArtifactReady:      s.IsArtifactReady,
		ArtifactLink:         s.ArtifactLink(),
		ArtifactLinks:        links,
		IsPaid:               s.IsPaid,
		Verified:             s.Verified,
		Email:                s.Email,
		ExpectedCompletionAt: s.ExpectedCompletionAt,
		StatusLabel:          string(s.Label),
		Warnings:             s.Warnings,
		Order: dto.OrderResponse{
			Name:              s.Order.Name,
			ID:                s.Order.ID,
			CreatedAt:         s.Order.CreatedAt,
			FulfillmentStatus: string(s.Order.FulfillmentState),
			Email:             s.Email,
			LineItems:         items,
		},
	}
}
