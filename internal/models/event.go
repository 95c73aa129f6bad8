package models

// PaymentEvent is pushed to connected clients when a payment changes state.
type PaymentEvent struct {
	PaymentID string        `json:"payment_id"`
	BookingID int           `json:"booking_id"`
	Status    PaymentStatus `json:"status"`
}
