package models

import (
	"time"
)

type InvoiceStatus string

const (
	InvoicePaid InvoiceStatus = "paid"
)

// Invoice is created exactly once, at the moment a payment reaches verified.
type Invoice struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	PaymentID   string        `json:"payment_id"`
	BookingID   int           `json:"booking_id"`
	TenantID    int           `json:"tenant_id"`
	OwnerID     int           `json:"owner_id"`
	Amount      int64         `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	LineItems   []LineItem    `json:"line_items"`
	DocumentURL *string       `json:"document_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type LineItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}
