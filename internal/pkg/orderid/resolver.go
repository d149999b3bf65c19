package orderid

import (
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
)

// Separator splits the merchant order id from the gateway disambiguator.
const Separator = "_"

// Resolve returns the base order id of a gateway composite id: the text before
// the first Separator, or the whole id when there is none. Resolving a base id
// returns it unchanged.
func Resolve(compositeOrderID string) (string, error) {
	id := strings.TrimSpace(compositeOrderID)
	if id == "" {
		return "", fmt.Errorf("%w: empty composite order id", domainErrors.ErrInvalidOrderID)
	}

	base, _, _ := strings.Cut(id, Separator)
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("%w: %q has no base order id", domainErrors.ErrInvalidOrderID, id)
	}
	return base, nil
}

// Compose builds a composite id for a payment attempt.
func Compose(baseOrderID, disambiguator string) string {
	return baseOrderID + Separator + disambiguator
}
