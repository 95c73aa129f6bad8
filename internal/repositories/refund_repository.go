package repositories

import (
	"context"
	"database/sql"

	"stayBack/internal/models"
)

type RefundRepository struct {
	DB *sql.DB
}

func (r *RefundRepository) CreateRefund(ctx context.Context, refund models.Refund) error {
	query := `
    INSERT INTO refunds (id, payment_id, amount, reason, status, processor_id, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.DB.ExecContext(ctx, query,
		refund.ID, refund.PaymentID, refund.Amount, refund.Reason, refund.Status, refund.ProcessorID, refund.CreatedAt,
	)
	return err
}

func (r *RefundRepository) GetRefundsByPayment(ctx context.Context, paymentID string) ([]models.Refund, error) {
	query := `
    SELECT id, payment_id, amount, reason, status, processor_id, created_at
    FROM refunds WHERE payment_id = ? ORDER BY created_at ASC
    `
	rows, err := r.DB.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refunds := []models.Refund{}
	for rows.Next() {
		var rf models.Refund
		if err := rows.Scan(&rf.ID, &rf.PaymentID, &rf.Amount, &rf.Reason, &rf.Status, &rf.ProcessorID, &rf.CreatedAt); err != nil {
			return nil, err
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}
