package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stayBack/internal/models"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentColumns = `id, booking_id, tenant_id, owner_id, amount, currency, upi_uri, status,
       reference, verified_by, verified_at, rejection_reason, refund_amount, refund_reason,
       refunded_at, created_at, updated_at`

func scanPayment(row *sql.Row) (models.Payment, error) {
	var p models.Payment
	var reference, rejectionReason, refundReason sql.NullString
	var verifiedBy sql.NullInt64
	var verifiedAt, refundedAt, updatedAt sql.NullTime
	var refundAmount sql.NullInt64

	err := row.Scan(
		&p.ID, &p.BookingID, &p.TenantID, &p.OwnerID, &p.Amount, &p.Currency, &p.UpiURI, &p.Status,
		&reference, &verifiedBy, &verifiedAt, &rejectionReason, &refundAmount, &refundReason,
		&refundedAt, &p.CreatedAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, ErrPaymentNotFound
		}
		return models.Payment{}, err
	}

	p.Reference = reference.String
	p.RejectionReason = rejectionReason.String
	p.RefundReason = refundReason.String
	if verifiedBy.Valid {
		v := int(verifiedBy.Int64)
		p.VerifiedBy = &v
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		p.VerifiedAt = &t
	}
	if refundAmount.Valid {
		a := refundAmount.Int64
		p.RefundAmount = &a
	}
	if refundedAt.Valid {
		t := refundedAt.Time
		p.RefundedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p models.Payment) error {
	query := `
    INSERT INTO payments (id, booking_id, tenant_id, owner_id, amount, currency, upi_uri, status, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.BookingID, p.TenantID, p.OwnerID, p.Amount, p.Currency, p.UpiURI, p.Status, p.CreatedAt,
	)
	return err
}

func (r *PaymentRepository) GetPaymentByID(ctx context.Context, id string) (models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return scanPayment(r.DB.QueryRowContext(ctx, query, id))
}

// GetPaymentForTenant embeds the tenant filter in the lookup so a missing
// payment and somebody else's payment are indistinguishable to the caller.
func (r *PaymentRepository) GetPaymentForTenant(ctx context.Context, id string, tenantID int) (models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? AND tenant_id = ?`
	return scanPayment(r.DB.QueryRowContext(ctx, query, id, tenantID))
}

func (r *PaymentRepository) GetPaymentForOwner(ctx context.Context, id string, ownerID int) (models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? AND owner_id = ?`
	return scanPayment(r.DB.QueryRowContext(ctx, query, id, ownerID))
}

// GetPaymentForParticipant serves the audit endpoint: either side of the
// payment may read it.
func (r *PaymentRepository) GetPaymentForParticipant(ctx context.Context, id string, actorID int) (models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? AND (tenant_id = ? OR owner_id = ?)`
	return scanPayment(r.DB.QueryRowContext(ctx, query, id, actorID, actorID))
}

// GetActivePaymentByBooking returns the booking's payment that has not been
// rejected. At most one such payment exists at a time.
func (r *PaymentRepository) GetActivePaymentByBooking(ctx context.Context, bookingID int) (models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = ? AND status <> ? ORDER BY created_at DESC LIMIT 1`
	return scanPayment(r.DB.QueryRowContext(ctx, query, bookingID, models.PaymentRejected))
}

// MarkAwaitingVerification is a conditional write: it succeeds only when the
// payment is still awaiting payment. The boolean reports whether the row moved.
func (r *PaymentRepository) MarkAwaitingVerification(ctx context.Context, id, reference string, now time.Time) (bool, error) {
	query := `UPDATE payments SET status = ?, reference = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, query,
		models.PaymentAwaitingOwnerVerification, reference, now, id, models.PaymentAwaitingPayment,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// MarkVerified moves the payment to verified from the given status. Losing a
// race means zero rows affected, never a duplicate transition.
func (r *PaymentRepository) MarkVerified(ctx context.Context, id string, from models.PaymentStatus, verifier int, now time.Time) (bool, error) {
	query := `UPDATE payments SET status = ?, verified_by = ?, verified_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, query,
		models.PaymentVerified, verifier, now, now, id, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PaymentRepository) MarkRejected(ctx context.Context, id string, from models.PaymentStatus, verifier int, reason string, now time.Time) (bool, error) {
	query := `UPDATE payments SET status = ?, verified_by = ?, rejection_reason = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, query,
		models.PaymentRejected, verifier, reason, now, id, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, id string, amount int64, reason string, now time.Time) (bool, error) {
	query := `UPDATE payments SET status = ?, refund_amount = ?, refund_reason = ?, refunded_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, query,
		models.PaymentRefunded, amount, reason, now, now, id, models.PaymentVerified,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PaymentRepository) ListPendingByOwner(ctx context.Context, ownerID int) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE owner_id = ? AND status = ? ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, models.PaymentAwaitingOwnerVerification)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		var reference, rejectionReason, refundReason sql.NullString
		var verifiedBy sql.NullInt64
		var verifiedAt, refundedAt, updatedAt sql.NullTime
		var refundAmount sql.NullInt64
		err := rows.Scan(
			&p.ID, &p.BookingID, &p.TenantID, &p.OwnerID, &p.Amount, &p.Currency, &p.UpiURI, &p.Status,
			&reference, &verifiedBy, &verifiedAt, &rejectionReason, &refundAmount, &refundReason,
			&refundedAt, &p.CreatedAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Reference = reference.String
		p.RejectionReason = rejectionReason.String
		p.RefundReason = refundReason.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListVerifiedMissingInvoice is the reconciliation hook: verified payments
// whose invoice never got created or whose booking never reached confirmed.
func (r *PaymentRepository) ListVerifiedMissingInvoice(ctx context.Context) ([]models.Payment, error) {
	query := `
    SELECT ` + paymentColumnsPrefixed + `
    FROM payments p
    LEFT JOIN invoices i ON i.payment_id = p.id
    JOIN bookings b ON b.id = p.booking_id
    WHERE p.status = ? AND (i.id IS NULL OR b.status <> ?)
    ORDER BY p.created_at ASC
    `
	rows, err := r.DB.QueryContext(ctx, query, models.PaymentVerified, models.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		var reference, rejectionReason, refundReason sql.NullString
		var verifiedBy sql.NullInt64
		var verifiedAt, refundedAt, updatedAt sql.NullTime
		var refundAmount sql.NullInt64
		err := rows.Scan(
			&p.ID, &p.BookingID, &p.TenantID, &p.OwnerID, &p.Amount, &p.Currency, &p.UpiURI, &p.Status,
			&reference, &verifiedBy, &verifiedAt, &rejectionReason, &refundAmount, &refundReason,
			&refundedAt, &p.CreatedAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Reference = reference.String
		if verifiedBy.Valid {
			v := int(verifiedBy.Int64)
			p.VerifiedBy = &v
		}
		if verifiedAt.Valid {
			t := verifiedAt.Time
			p.VerifiedAt = &t
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

const paymentColumnsPrefixed = `p.id, p.booking_id, p.tenant_id, p.owner_id, p.amount, p.currency, p.upi_uri, p.status,
       p.reference, p.verified_by, p.verified_at, p.rejection_reason, p.refund_amount, p.refund_reason,
       p.refunded_at, p.created_at, p.updated_at`
