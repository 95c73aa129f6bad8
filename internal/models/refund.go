package models

import (
	"time"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundCompleted RefundStatus = "completed"
)

type Refund struct {
	ID          string       `json:"id"`
	PaymentID   string       `json:"payment_id"`
	Amount      int64        `json:"amount"`
	Reason      string       `json:"reason"`
	Status      RefundStatus `json:"status"`
	ProcessorID int          `json:"processor_id"`
	CreatedAt   time.Time    `json:"created_at"`
}
