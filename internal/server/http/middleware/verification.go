package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// VerificationTokenContextKey is a gin context key for the caller's verification token.
	VerificationTokenContextKey = "verificationToken"
	verificationCookieName      = "fulfillsync_verification"
)

// VerificationToken stores the optional verification token for handlers.
// Requests without a token are passed through unverified.
func VerificationToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			c.Set(VerificationTokenContextKey, token)
		}
		c.Next()
	}
}

// CurrentToken returns the token stored by VerificationToken.
func CurrentToken(c *gin.Context) string {
	return c.GetString(VerificationTokenContextKey)
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(verificationCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetVerificationCookie writes the verification token to the response.
func SetVerificationCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := 0
	if ttl := time.Until(expiresAt); ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(verificationCookieName, token, maxAge, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
