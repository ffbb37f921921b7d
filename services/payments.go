package services

import (
	"fmt"

	"guesthouse-server/utils"
)

// PaymentProvider abstracts the PayPal-style capture flow. The checkout UI
// completes capture client-side; the server only needs order/transaction
// references for the booking record.
type PaymentProvider interface {
	CreateOrder(amount float64, currency string) (orderID string, err error)
	CaptureOrder(orderID string) (transactionID string, err error)
}

// RecordingPaymentProvider issues synthetic references. Stands in wherever a
// real provider is not wired.
type RecordingPaymentProvider struct{}

func (RecordingPaymentProvider) CreateOrder(amount float64, currency string) (string, error) {
	return fmt.Sprintf("ORD-%s", utils.GenerateShortToken(6)), nil
}

func (RecordingPaymentProvider) CaptureOrder(orderID string) (string, error) {
	return fmt.Sprintf("TXN-%s", utils.GenerateShortToken(6)), nil
}
