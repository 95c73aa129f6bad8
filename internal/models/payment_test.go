package models

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	allowed := map[PaymentStatus][]PaymentStatus{
		PaymentAwaitingPayment:           {PaymentAwaitingOwnerVerification, PaymentVerified, PaymentRejected},
		PaymentAwaitingOwnerVerification: {PaymentVerified, PaymentRejected},
		PaymentVerified:                  {PaymentRefunded},
		PaymentRejected:                  {},
		PaymentRefunded:                  {},
	}
	all := []PaymentStatus{
		PaymentAwaitingPayment, PaymentAwaitingOwnerVerification,
		PaymentVerified, PaymentRejected, PaymentRefunded,
	}

	for from, targets := range allowed {
		ok := map[PaymentStatus]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			if got := from.CanTransition(to); got != ok[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	if PaymentAwaitingPayment.Terminal() || PaymentAwaitingOwnerVerification.Terminal() {
		t.Errorf("open statuses must not be terminal")
	}
	if PaymentVerified.Terminal() {
		t.Errorf("verified still allows a refund")
	}
	if !PaymentRejected.Terminal() || !PaymentRefunded.Terminal() {
		t.Errorf("rejected and refunded are terminal")
	}
}

func TestBookingNights(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		checkOut time.Time
		want     int
	}{
		{checkIn.AddDate(0, 0, 3), 3},
		{checkIn.Add(30 * time.Hour), 2},
		{checkIn.Add(2 * time.Hour), 1},
		{checkIn, 1},
	}
	for _, tt := range tests {
		b := Booking{CheckIn: checkIn, CheckOut: tt.checkOut}
		if got := b.Nights(); got != tt.want {
			t.Errorf("Nights(%v) = %d, want %d", tt.checkOut.Sub(checkIn), got, tt.want)
		}
	}
}
