package services

import (
	"strings"
	"testing"
)

func TestBuildIntent_FixedFieldOrder(t *testing.T) {
	s := NewUPIService()
	got := s.BuildIntent("asha@okbank", "Asha Rao", 300050, "Booking 12")
	want := "upi://pay?pa=asha%40okbank&pn=Asha+Rao&am=3000.50&tn=Booking+12&cu=INR"
	if got != want {
		t.Errorf("intent mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestBuildIntent_Deterministic(t *testing.T) {
	s := NewUPIService()
	first := s.BuildIntent("pay@upi", "Owner", 1000, "note")
	second := s.BuildIntent("pay@upi", "Owner", 1000, "note")
	if first != second {
		t.Errorf("same inputs produced different intents: %q vs %q", first, second)
	}
}

func TestBuildIntent_CustomCurrency(t *testing.T) {
	s := &UPIService{Currency: "NPR"}
	got := s.BuildIntent("pay@upi", "Owner", 1000, "note")
	if !strings.HasSuffix(got, "&cu=NPR") {
		t.Errorf("currency override not applied: %q", got)
	}
}

func TestFormatMajorUnits(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{3000, "30.00"},
		{300050, "3000.50"},
		{-1250, "-12.50"},
	}
	for _, tt := range tests {
		if got := FormatMajorUnits(tt.minor); got != tt.want {
			t.Errorf("FormatMajorUnits(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
}

func TestEncodeQR_ReturnsDataURL(t *testing.T) {
	s := NewUPIService()
	got := s.EncodeQR("upi://pay?pa=x@y&pn=X&am=1.00&tn=n&cu=INR")
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("expected a png data url, got %q", got)
	}
}
