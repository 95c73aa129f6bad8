package models

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID         int           `json:"id"`
	TenantID   int           `json:"tenant_id"`
	PropertyID int           `json:"property_id"`
	OwnerID    int           `json:"owner_id"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  *time.Time    `json:"updated_at,omitempty"`
}

// Nights rounds partial days up so a late checkout still bills a full night.
func (b Booking) Nights() int {
	n := int(math.Ceil(b.CheckOut.Sub(b.CheckIn).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}
