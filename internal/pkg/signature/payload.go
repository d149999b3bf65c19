package signature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// looseString accepts JSON strings, numbers and null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

type webhookBody struct {
	Event string `json:"event"`
	Type  string `json:"type"`
	Data  struct {
		Order struct {
			OrderID           looseString `json:"order_id"`
			TransactionStatus string      `json:"transaction_status"`
			TransactionID     looseString `json:"transaction_id"`
		} `json:"order"`
		Payment struct {
			OrderID       looseString `json:"order_id"`
			PaymentStatus string      `json:"payment_status"`
			PaymentID     looseString `json:"cf_payment_id"`
		} `json:"payment"`
	} `json:"data"`
}

// ParsePayload decodes a verified webhook body. The order sub-object wins
// over the payment sub-object when both carry a field.
func ParsePayload(rawBody []byte) (*model.PaymentEvent, error) {
	var body webhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrBadPayload, err)
	}

	status := strings.TrimSpace(body.Data.Order.TransactionStatus)
	if status == "" {
		status = strings.TrimSpace(body.Data.Payment.PaymentStatus)
	}

	return &model.PaymentEvent{
		Event:             body.Event,
		Type:              body.Type,
		CompositeOrderID:  strings.TrimSpace(firstNonEmpty(body.Data.Order.OrderID, body.Data.Payment.OrderID)),
		TransactionStatus: model.TransactionStatus(status),
		TransactionID:     firstNonEmpty(body.Data.Order.TransactionID, body.Data.Payment.PaymentID),
		ReceivedAt:        time.Now().UTC(),
	}, nil
}

func firstNonEmpty(values ...looseString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}
