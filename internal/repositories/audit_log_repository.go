package repositories

import (
	"context"
	"database/sql"

	"stayBack/internal/models"
)

// AuditLogRepository is append-only. It deliberately has no update or
// delete methods.
type AuditLogRepository struct {
	DB *sql.DB
}

func (r *AuditLogRepository) Append(ctx context.Context, entry models.AuditLogEntry) error {
	query := `
    INSERT INTO audit_log (id, actor_id, action, details, payment_id, booking_id, invoice_id, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.Details,
		entry.PaymentID, entry.BookingID, entry.InvoiceID, entry.CreatedAt,
	)
	return err
}

const auditColumns = `id, actor_id, action, details, payment_id, booking_id, invoice_id, created_at`

func (r *AuditLogRepository) scanEntries(rows *sql.Rows) ([]models.AuditLogEntry, error) {
	defer rows.Close()
	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var e models.AuditLogEntry
		var paymentID, invoiceID sql.NullString
		var bookingID sql.NullInt64
		err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Details, &paymentID, &bookingID, &invoiceID, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		if paymentID.Valid {
			v := paymentID.String
			e.PaymentID = &v
		}
		if bookingID.Valid {
			v := int(bookingID.Int64)
			e.BookingID = &v
		}
		if invoiceID.Valid {
			v := invoiceID.String
			e.InvoiceID = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ByPayment returns entries oldest first so history reads in order.
func (r *AuditLogRepository) ByPayment(ctx context.Context, paymentID string) ([]models.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE payment_id = ? ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(rows)
}

func (r *AuditLogRepository) ByBooking(ctx context.Context, bookingID int) ([]models.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE booking_id = ? ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(rows)
}

// ByActor returns the most recent entries first.
func (r *AuditLogRepository) ByActor(ctx context.Context, actorID, limit int) ([]models.AuditLogEntry, error) {
	if limit < 1 {
		limit = 50
	}
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE actor_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, query, actorID, limit)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(rows)
}
