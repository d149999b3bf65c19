package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
)

const (
	maxQueryLength = 254
	namePrefix     = "#"
)

// NormalizeQuery trims a free-text order query and rejects empty or oversized input.
func NormalizeQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: missing order id or email", domainErrors.ErrInvalidQuery)
	}
	if len(query) > maxQueryLength {
		return "", fmt.Errorf("%w: query too long", domainErrors.ErrInvalidQuery)
	}
	for _, r := range query {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: control characters", domainErrors.ErrInvalidQuery)
		}
	}
	return query, nil
}

// numericID returns the platform id a numeric query denotes.
func numericID(query string) (int64, bool) {
	id, err := strconv.ParseInt(query, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func looksLikeEmail(query string) bool {
	return strings.Contains(query, "@")
}

// togglePrefix adds the conventional name prefix, or strips it when present.
func togglePrefix(query string) string {
	if strings.HasPrefix(query, namePrefix) {
		return strings.TrimSpace(strings.TrimPrefix(query, namePrefix))
	}
	return namePrefix + query
}
