package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fulfillsync/internal/adapter/commerce"
	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/server/http/dto"
)

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// abortUpstream answers 502 and forwards the commerce platform's retry hint.
func abortUpstream(c *gin.Context, err error) {
	_ = c.Error(err)
	if wait, ok := commerce.RetryAfter(err); ok {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(max(wait, 0).Seconds()))))
	}
	abortWithError(c, http.StatusBadGateway, "Upstream service unavailable, please retry later.")
}

// abortLookupError translates order lookup failures shared by status and verification.
func abortLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidQuery):
		abortWithError(c, http.StatusBadRequest, "Invalid order ID or email.")
	case errors.Is(err, domainErrors.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Order not found. Please check the order number or email and try again.")
	case errors.Is(err, domainErrors.ErrUpstream):
		abortUpstream(c, err)
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
