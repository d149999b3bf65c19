package model

import "time"

// TransactionStatus is the payment gateway's verdict for a payment attempt.
type TransactionStatus string

const TransactionSuccess TransactionStatus = "SUCCESS"

// PaymentEvent is the parsed body of a payment webhook. It lives only for
// the duration of a single delivery.
type PaymentEvent struct {
	Event             string
	Type              string
	CompositeOrderID  string
	TransactionStatus TransactionStatus
	TransactionID     string
	ReceivedAt        time.Time
}

// Succeeded reports whether the payment should mark the order as paid.
func (e PaymentEvent) Succeeded() bool {
	return e.TransactionStatus == TransactionSuccess
}
