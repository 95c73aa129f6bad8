package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentAwaitingPayment           PaymentStatus = "awaiting_payment"
	PaymentAwaitingOwnerVerification PaymentStatus = "awaiting_owner_verification"
	PaymentVerified                  PaymentStatus = "verified"
	PaymentRejected                  PaymentStatus = "rejected"
	PaymentRefunded                  PaymentStatus = "refunded"
)

// SystemActorID is the reserved actor recorded when the external
// confirmation channel drives a transition instead of a user.
const SystemActorID = 0

// Terminal reports whether no further transition can leave the status.
// Verified still admits the refund transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentRejected || s == PaymentRefunded
}

// CanTransition is the single place that knows the payment status graph.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentAwaitingPayment:
		return to == PaymentAwaitingOwnerVerification || to == PaymentVerified || to == PaymentRejected
	case PaymentAwaitingOwnerVerification:
		return to == PaymentVerified || to == PaymentRejected
	case PaymentVerified:
		return to == PaymentRefunded
	default:
		return false
	}
}

type Payment struct {
	ID              string        `json:"id"`
	BookingID       int           `json:"booking_id"`
	TenantID        int           `json:"tenant_id"`
	OwnerID         int           `json:"owner_id"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	UpiURI          string        `json:"upi_uri"`
	Status          PaymentStatus `json:"status"`
	Reference       string        `json:"reference,omitempty"`
	VerifiedBy      *int          `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time    `json:"verified_at,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	RefundAmount    *int64        `json:"refund_amount,omitempty"`
	RefundReason    string        `json:"refund_reason,omitempty"`
	RefundedAt      *time.Time    `json:"refunded_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

type CreatePaymentRequest struct {
	BookingID int   `json:"booking_id"`
	Amount    int64 `json:"amount,omitempty"`
}

type ConfirmPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Reference string `json:"reference,omitempty"`
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Decision  string `json:"decision"`
	Note      string `json:"note,omitempty"`
}

type RefundPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}
