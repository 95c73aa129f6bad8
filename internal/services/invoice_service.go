package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"stayBack/internal/models"
	"stayBack/utils"
)

// InvoiceStore is the slice of the invoice repository the generator needs.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv models.Invoice) error
	GetInvoiceByPayment(ctx context.Context, paymentID string) (models.Invoice, error)
	AttachDocument(ctx context.Context, invoiceID, documentURL string) error
}

// DocumentRenderer turns an invoice into a rendered PDF. Rendering happens
// outside this service; only the request and the resulting bytes cross the
// boundary.
type DocumentRenderer interface {
	Render(ctx context.Context, inv models.Invoice) ([]byte, error)
}

type InvoiceService struct {
	InvoiceRepo InvoiceStore
	Renderer    DocumentRenderer
	Upload      func(file []byte, fileName, folder string) (string, error)
}

// GenerateNumber builds INV-<unix-ts>-<payment-id-fragment>. The fragment
// comes from the payment id, which is already unique, so no datastore
// uniqueness check is needed.
func (s *InvoiceService) GenerateNumber(paymentID string, now time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(paymentID, "-", ""))
	if len(frag) > 8 {
		frag = frag[:8]
	}
	if frag == "" {
		frag = utils.RandomCode(8)
	}
	return fmt.Sprintf("INV-%d-%s", now.Unix(), frag)
}

// IssueForPayment creates the invoice row for a freshly verified payment with
// a single accommodation line item.
func (s *InvoiceService) IssueForPayment(ctx context.Context, p models.Payment, description string, now time.Time) (models.Invoice, error) {
	inv := models.Invoice{
		ID:        utils.NewID(),
		Number:    s.GenerateNumber(p.ID, now),
		PaymentID: p.ID,
		BookingID: p.BookingID,
		TenantID:  p.TenantID,
		OwnerID:   p.OwnerID,
		Amount:    p.Amount,
		Status:    models.InvoicePaid,
		LineItems: []models.LineItem{
			{Description: description, Amount: p.Amount},
		},
		CreatedAt: now,
	}
	if err := s.InvoiceRepo.CreateInvoice(ctx, inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

// InvoiceByPayment returns the invoice previously issued for a payment.
func (s *InvoiceService) InvoiceByPayment(ctx context.Context, paymentID string) (models.Invoice, error) {
	return s.InvoiceRepo.GetInvoiceByPayment(ctx, paymentID)
}

// RequestDocument renders and stores the invoice document, then patches the
// reference onto the invoice. Every failure is logged and swallowed: the
// invoice is valid without a rendered document.
func (s *InvoiceService) RequestDocument(ctx context.Context, inv models.Invoice) {
	if s.Renderer == nil || s.Upload == nil {
		return
	}
	pdf, err := s.Renderer.Render(ctx, inv)
	if err != nil {
		log.Printf("invoice %s: document rendering failed: %v", inv.Number, err)
		return
	}
	docURL, err := s.Upload(pdf, inv.Number+".pdf", "invoices")
	if err != nil {
		log.Printf("invoice %s: document upload failed: %v", inv.Number, err)
		return
	}
	if err := s.InvoiceRepo.AttachDocument(ctx, inv.ID, docURL); err != nil {
		log.Printf("invoice %s: attaching document reference failed: %v", inv.Number, err)
	}
}

// RequestDocumentAsync decouples rendering from the caller's request cycle.
func (s *InvoiceService) RequestDocumentAsync(inv models.Invoice) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.RequestDocument(ctx, inv)
	}()
}

// HTTPDocumentRenderer posts the invoice to an external render endpoint and
// expects PDF bytes back.
type HTTPDocumentRenderer struct {
	Endpoint string
	Client   *http.Client
}

func (r *HTTPDocumentRenderer) Render(ctx context.Context, inv models.Invoice) ([]byte, error) {
	body, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("render endpoint returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
