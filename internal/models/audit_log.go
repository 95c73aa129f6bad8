package models

import (
	"time"
)

// Audit action codes. One constant per state-changing operation.
const (
	ActionPaymentCreated       = "payment_created"
	ActionPaymentConfirmed     = "payment_confirmed"
	ActionPaymentVerified      = "payment_verified"
	ActionPaymentRejected      = "payment_rejected"
	ActionPaymentRefunded      = "payment_refunded"
	ActionInvoiceGenerated     = "invoice_generated"
	ActionBookingStatusChanged = "booking_status_changed"
)

// AuditLogEntry is append-only: the repository exposes no update or
// delete for it.
type AuditLogEntry struct {
	ID        string    `json:"id"`
	ActorID   int       `json:"actor_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	PaymentID *string   `json:"payment_id,omitempty"`
	BookingID *int      `json:"booking_id,omitempty"`
	InvoiceID *string   `json:"invoice_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLinks carries the optional entity references attached to an entry.
type AuditLinks struct {
	PaymentID *string
	BookingID *int
	InvoiceID *string
}
