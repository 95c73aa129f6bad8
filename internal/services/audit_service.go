package services

import (
	"context"
	"time"

	"stayBack/internal/models"
	"stayBack/utils"
)

// AuditStore is intentionally append-plus-read only; nothing in the codebase
// can update or delete an audit entry.
type AuditStore interface {
	Append(ctx context.Context, entry models.AuditLogEntry) error
	ByPayment(ctx context.Context, paymentID string) ([]models.AuditLogEntry, error)
	ByBooking(ctx context.Context, bookingID int) ([]models.AuditLogEntry, error)
	ByActor(ctx context.Context, actorID, limit int) ([]models.AuditLogEntry, error)
}

type AuditService struct {
	AuditRepo AuditStore
}

// Record appends one entry. Callers treat a failure here as an operation
// failure: state changes must not report success without their audit entry.
func (s *AuditService) Record(ctx context.Context, actorID int, action, details string, links models.AuditLinks) error {
	entry := models.AuditLogEntry{
		ID:        utils.NewID(),
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		PaymentID: links.PaymentID,
		BookingID: links.BookingID,
		InvoiceID: links.InvoiceID,
		CreatedAt: time.Now().UTC(),
	}
	return s.AuditRepo.Append(ctx, entry)
}

func (s *AuditService) ByPayment(ctx context.Context, paymentID string) ([]models.AuditLogEntry, error) {
	return s.AuditRepo.ByPayment(ctx, paymentID)
}

func (s *AuditService) ByBooking(ctx context.Context, bookingID int) ([]models.AuditLogEntry, error) {
	return s.AuditRepo.ByBooking(ctx, bookingID)
}

func (s *AuditService) ByActor(ctx context.Context, actorID, limit int) ([]models.AuditLogEntry, error) {
	return s.AuditRepo.ByActor(ctx, actorID, limit)
}
