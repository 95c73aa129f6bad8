package services

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// UPIService builds deterministic upi:// payment intents. The field order is
// fixed (pa, pn, am, tn, cu) so the same inputs always produce the same URI.
type UPIService struct {
	Currency string // ISO code, INR unless overridden
	QRSize   int
}

func NewUPIService() *UPIService {
	return &UPIService{Currency: "INR", QRSize: 256}
}

func (s *UPIService) currency() string {
	if s.Currency == "" {
		return "INR"
	}
	return s.Currency
}

// BuildIntent assembles the intent URI by hand: url.Values.Encode sorts keys
// alphabetically, which would break the fixed field order.
func (s *UPIService) BuildIntent(payeeID, payeeName string, amountMinor int64, note string) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(url.QueryEscape(payeeID))
	b.WriteString("&pn=")
	b.WriteString(url.QueryEscape(payeeName))
	b.WriteString("&am=")
	b.WriteString(FormatMajorUnits(amountMinor))
	b.WriteString("&tn=")
	b.WriteString(url.QueryEscape(note))
	b.WriteString("&cu=")
	b.WriteString(s.currency())
	return b.String()
}

// EncodeQR returns a base64 PNG data URL for the given intent. On encoding
// failure the raw URI comes back instead; this never fails outright.
func (s *UPIService) EncodeQR(uri string) string {
	size := s.QRSize
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, size)
	if err != nil {
		log.Printf("qr encoding failed, falling back to raw uri: %v", err)
		return uri
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// FormatMajorUnits renders minor units as a decimal amount with two
// fractional digits, e.g. 300050 -> "3000.50".
func FormatMajorUnits(amountMinor int64) string {
	sign := ""
	if amountMinor < 0 {
		sign = "-"
		amountMinor = -amountMinor
	}
	return fmt.Sprintf("%s%d.%02d", sign, amountMinor/100, amountMinor%100)
}
