package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"stayBack/internal/models"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
)

type InvoiceRepository struct {
	DB *sql.DB
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv models.Invoice) error {
	itemsJSON, err := json.Marshal(inv.LineItems)
	if err != nil {
		return err
	}
	query := `
    INSERT INTO invoices (id, number, payment_id, booking_id, tenant_id, owner_id, amount, status, line_items, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.DB.ExecContext(ctx, query,
		inv.ID, inv.Number, inv.PaymentID, inv.BookingID, inv.TenantID, inv.OwnerID,
		inv.Amount, inv.Status, string(itemsJSON), inv.CreatedAt,
	)
	return err
}

func (r *InvoiceRepository) GetInvoiceByPayment(ctx context.Context, paymentID string) (models.Invoice, error) {
	query := `
    SELECT id, number, payment_id, booking_id, tenant_id, owner_id, amount, status, line_items, document_url, created_at
    FROM invoices WHERE payment_id = ?
    `
	var inv models.Invoice
	var itemsJSON string
	var documentURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, paymentID).Scan(
		&inv.ID, &inv.Number, &inv.PaymentID, &inv.BookingID, &inv.TenantID, &inv.OwnerID,
		&inv.Amount, &inv.Status, &itemsJSON, &documentURL, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invoice{}, ErrInvoiceNotFound
		}
		return models.Invoice{}, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &inv.LineItems); err != nil {
		return models.Invoice{}, err
	}
	if documentURL.Valid {
		u := documentURL.String
		inv.DocumentURL = &u
	}
	return inv, nil
}

// AttachDocument patches the rendered document reference onto an existing
// invoice. The invoice is valid without it.
func (r *InvoiceRepository) AttachDocument(ctx context.Context, invoiceID, documentURL string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE invoices SET document_url = ? WHERE id = ?`, documentURL, invoiceID)
	return err
}
