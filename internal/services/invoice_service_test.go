package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stayBack/internal/models"
)

func TestGenerateNumber(t *testing.T) {
	s := &InvoiceService{}
	now := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)
	got := s.GenerateNumber("a1b2c3d4-e5f6-7890-abcd-ef1234567890", now)
	want := fmt.Sprintf("INV-%d-A1B2C3D4", now.Unix())
	if got != want {
		t.Errorf("number mismatch: got %q, want %q", got, want)
	}
}

func TestGenerateNumber_EmptyPaymentID(t *testing.T) {
	s := &InvoiceService{}
	got := s.GenerateNumber("", time.Now())
	parts := strings.Split(got, "-")
	if len(parts) != 3 || parts[0] != "INV" || len(parts[2]) != 8 {
		t.Errorf("unexpected fallback number: %q", got)
	}
}

func TestIssueForPayment(t *testing.T) {
	store := &fakeInvoiceStore{invoices: map[string]models.Invoice{}}
	s := &InvoiceService{InvoiceRepo: store}
	now := time.Now().UTC()
	p := models.Payment{
		ID:        "pay-1",
		BookingID: 4,
		TenantID:  testTenantID,
		OwnerID:   testOwnerID,
		Amount:    3000,
		Currency:  "INR",
	}

	inv, err := s.IssueForPayment(context.Background(), p, "Accommodation at Sunrise Hostel, 3 night(s)", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Amount != 3000 || inv.Status != models.InvoicePaid {
		t.Errorf("invoice fields mismatch: %+v", inv)
	}
	if len(inv.LineItems) != 1 || inv.LineItems[0].Amount != 3000 {
		t.Errorf("line items mismatch: %+v", inv.LineItems)
	}
	if _, err := s.InvoiceByPayment(context.Background(), "pay-1"); err != nil {
		t.Errorf("stored invoice not readable: %v", err)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, models.Invoice) ([]byte, error) {
	return nil, errors.New("renderer down")
}

func TestRequestDocument_RenderFailureIsSwallowed(t *testing.T) {
	store := &fakeInvoiceStore{invoices: map[string]models.Invoice{}}
	s := &InvoiceService{
		InvoiceRepo: store,
		Renderer:    failingRenderer{},
		Upload: func([]byte, string, string) (string, error) {
			t.Errorf("upload must not run when rendering fails")
			return "", nil
		},
	}
	inv := models.Invoice{ID: "inv-1", Number: "INV-1-X", PaymentID: "pay-1"}
	store.invoices[inv.PaymentID] = inv

	s.RequestDocument(context.Background(), inv)

	stored, _ := store.GetInvoiceByPayment(context.Background(), "pay-1")
	if stored.DocumentURL != nil {
		t.Errorf("document url must stay empty after a failed render")
	}
}

func TestRequestDocument_AttachesUploadedURL(t *testing.T) {
	render := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer render.Close()

	store := &fakeInvoiceStore{invoices: map[string]models.Invoice{}}
	s := &InvoiceService{
		InvoiceRepo: store,
		Renderer:    &HTTPDocumentRenderer{Endpoint: render.URL},
		Upload: func(file []byte, fileName, folder string) (string, error) {
			if len(file) == 0 {
				t.Errorf("empty file passed to upload")
			}
			return "https://cdn.example.com/" + folder + "/" + fileName, nil
		},
	}
	inv := models.Invoice{ID: "inv-2", Number: "INV-2-Y", PaymentID: "pay-2"}
	store.invoices[inv.PaymentID] = inv

	s.RequestDocument(context.Background(), inv)

	stored, _ := store.GetInvoiceByPayment(context.Background(), "pay-2")
	if stored.DocumentURL == nil || *stored.DocumentURL != "https://cdn.example.com/invoices/INV-2-Y.pdf" {
		t.Errorf("document url not attached: %+v", stored.DocumentURL)
	}
}

func TestHTTPDocumentRenderer_Non2xxIsError(t *testing.T) {
	render := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer render.Close()

	r := &HTTPDocumentRenderer{Endpoint: render.URL}
	if _, err := r.Render(context.Background(), models.Invoice{Number: "INV-3-Z"}); err == nil {
		t.Fatalf("expected an error for a 502 response")
	}
}
