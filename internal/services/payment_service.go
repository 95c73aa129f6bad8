package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"stayBack/internal/models"
	"stayBack/internal/repositories"
)

// Store interfaces cover exactly what the state machine needs from each
// repository, so tests can substitute in-memory fakes.

type PaymentStore interface {
	CreatePayment(ctx context.Context, p models.Payment) error
	GetPaymentByID(ctx context.Context, id string) (models.Payment, error)
	GetPaymentForTenant(ctx context.Context, id string, tenantID int) (models.Payment, error)
	GetPaymentForOwner(ctx context.Context, id string, ownerID int) (models.Payment, error)
	GetPaymentForParticipant(ctx context.Context, id string, actorID int) (models.Payment, error)
	GetActivePaymentByBooking(ctx context.Context, bookingID int) (models.Payment, error)
	MarkAwaitingVerification(ctx context.Context, id, reference string, now time.Time) (bool, error)
	MarkVerified(ctx context.Context, id string, from models.PaymentStatus, verifier int, now time.Time) (bool, error)
	MarkRejected(ctx context.Context, id string, from models.PaymentStatus, verifier int, reason string, now time.Time) (bool, error)
	MarkRefunded(ctx context.Context, id string, amount int64, reason string, now time.Time) (bool, error)
	ListPendingByOwner(ctx context.Context, ownerID int) ([]models.Payment, error)
	ListVerifiedMissingInvoice(ctx context.Context) ([]models.Payment, error)
}

type BookingStore interface {
	GetBookingByID(ctx context.Context, id int) (models.Booking, error)
	GetBookingForTenant(ctx context.Context, id, tenantID int) (models.Booking, error)
	UpdateStatus(ctx context.Context, id int, status models.BookingStatus, now time.Time) error
}

type PropertyStore interface {
	GetPropertyByID(ctx context.Context, id int) (models.Property, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

type RefundStore interface {
	CreateRefund(ctx context.Context, refund models.Refund) error
	GetRefundsByPayment(ctx context.Context, paymentID string) ([]models.Refund, error)
}

type Auditor interface {
	Record(ctx context.Context, actorID int, action, details string, links models.AuditLinks) error
	ByPayment(ctx context.Context, paymentID string) ([]models.AuditLogEntry, error)
}

type InvoiceIssuer interface {
	IssueForPayment(ctx context.Context, p models.Payment, description string, now time.Time) (models.Invoice, error)
	InvoiceByPayment(ctx context.Context, paymentID string) (models.Invoice, error)
	RequestDocumentAsync(inv models.Invoice)
}

type PendingListCache interface {
	Get(ctx context.Context, ownerID int) ([]models.Payment, bool)
	Set(ctx context.Context, ownerID int, payments []models.Payment)
	Invalidate(ctx context.Context, ownerID int)
}

type Notifier interface {
	PaymentStatusChanged(ctx context.Context, p models.Payment, recipientID int, title, body string)
}

// PaymentService drives the payment lifecycle:
//
//	awaiting_payment -> awaiting_owner_verification -> verified | rejected
//	verified -> refunded
//
// The datastore gives us no multi-row transactions, so the verify sequence
// commits in a fixed order (payment status first, since it is the
// authoritative gate) and a crash mid-sequence is recovered by support
// tooling via Unreconciled, never by rolling the verification back.
type PaymentService struct {
	PaymentRepo  PaymentStore
	BookingRepo  BookingStore
	PropertyRepo PropertyStore
	UserRepo     UserStore
	RefundRepo   RefundStore
	Audit        Auditor
	Invoices     InvoiceIssuer
	Upi          *UPIService
	Cache        PendingListCache
	Notifier     Notifier
	Now          func() time.Time
}

type CreatePaymentResult struct {
	Payment   models.Payment `json:"payment"`
	QRDataURL string         `json:"qr_data_url"`
}

type VerifyPaymentResult struct {
	Payment models.Payment  `json:"payment"`
	Invoice *models.Invoice `json:"invoice,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreatePayment opens a payment intent for a pending booking. The amount
// defaults to nights x nightly price in minor units.
func (s *PaymentService) CreatePayment(ctx context.Context, tenantID int, req models.CreatePaymentRequest) (CreatePaymentResult, error) {
	booking, err := s.BookingRepo.GetBookingForTenant(ctx, req.BookingID, tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return CreatePaymentResult{}, models.ErrBookingNotFound
		}
		return CreatePaymentResult{}, err
	}
	if booking.Status != models.BookingPending {
		return CreatePaymentResult{}, models.ErrBookingNotFound
	}

	if _, err := s.PaymentRepo.GetActivePaymentByBooking(ctx, booking.ID); err == nil {
		return CreatePaymentResult{}, models.ErrPaymentExists
	} else if !errors.Is(err, repositories.ErrPaymentNotFound) {
		return CreatePaymentResult{}, err
	}

	property, err := s.PropertyRepo.GetPropertyByID(ctx, booking.PropertyID)
	if err != nil {
		return CreatePaymentResult{}, err
	}
	owner, err := s.UserRepo.GetUserByID(ctx, property.OwnerID)
	if err != nil {
		return CreatePaymentResult{}, err
	}

	amount := req.Amount
	if amount <= 0 {
		amount = int64(booking.Nights()) * property.NightlyPrice
	}

	now := s.now()
	paymentID := uuid.New().String()
	note := fmt.Sprintf("Booking %d", booking.ID)
	intent := s.Upi.BuildIntent(owner.UpiID, ownerDisplayName(owner), amount, note)

	payment := models.Payment{
		ID:        paymentID,
		BookingID: booking.ID,
		TenantID:  tenantID,
		OwnerID:   property.OwnerID,
		Amount:    amount,
		Currency:  s.Upi.currency(),
		UpiURI:    intent,
		Status:    models.PaymentAwaitingPayment,
		CreatedAt: now,
	}
	if err := s.PaymentRepo.CreatePayment(ctx, payment); err != nil {
		return CreatePaymentResult{}, err
	}

	details := fmt.Sprintf("payment of %s %s created for booking %d", FormatMajorUnits(amount), payment.Currency, booking.ID)
	if err := s.Audit.Record(ctx, tenantID, models.ActionPaymentCreated, details, paymentLinks(payment)); err != nil {
		return CreatePaymentResult{}, err
	}

	return CreatePaymentResult{
		Payment:   payment,
		QRDataURL: s.Upi.EncodeQR(intent),
	}, nil
}

// ConfirmPayment records the tenant's claim that the transfer went out.
// Any failed precondition surfaces as payment-not-found so callers cannot
// probe for other people's payments.
func (s *PaymentService) ConfirmPayment(ctx context.Context, tenantID int, req models.ConfirmPaymentRequest) (models.Payment, error) {
	p, err := s.PaymentRepo.GetPaymentForTenant(ctx, req.PaymentID, tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return models.Payment{}, models.ErrPaymentNotFound
		}
		return models.Payment{}, err
	}
	if p.Status != models.PaymentAwaitingPayment {
		return models.Payment{}, models.ErrPaymentNotFound
	}

	now := s.now()
	ok, err := s.PaymentRepo.MarkAwaitingVerification(ctx, p.ID, req.Reference, now)
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	p.Status = models.PaymentAwaitingOwnerVerification
	p.Reference = req.Reference
	p.UpdatedAt = &now

	details := fmt.Sprintf("tenant reported transfer for payment %s", p.ID)
	if req.Reference != "" {
		details += " (ref " + req.Reference + ")"
	}
	if err := s.Audit.Record(ctx, tenantID, models.ActionPaymentConfirmed, details, paymentLinks(p)); err != nil {
		return models.Payment{}, err
	}

	s.invalidatePending(ctx, p.OwnerID)
	s.notify(ctx, p, p.OwnerID, "Payment awaiting verification",
		fmt.Sprintf("A tenant reported a transfer of %s %s for booking %d.", FormatMajorUnits(p.Amount), p.Currency, p.BookingID))
	return p, nil
}

// VerifyPayment applies the owner's decision. Calling it again on an already
// decided payment returns the existing outcome without repeating any side
// effect.
func (s *PaymentService) VerifyPayment(ctx context.Context, ownerID int, req models.VerifyPaymentRequest) (VerifyPaymentResult, error) {
	p, err := s.PaymentRepo.GetPaymentForOwner(ctx, req.PaymentID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return VerifyPaymentResult{}, models.ErrPaymentNotFound
		}
		return VerifyPaymentResult{}, err
	}

	if p.Status == models.PaymentVerified || p.Status == models.PaymentRejected {
		return s.decidedResult(ctx, p), nil
	}
	if p.Status != models.PaymentAwaitingOwnerVerification {
		return VerifyPaymentResult{}, models.ErrInvalidState
	}

	switch req.Decision {
	case "verify":
		return s.finalizeVerification(ctx, p, ownerID)
	case "reject":
		return s.rejectPayment(ctx, p, ownerID, req.Note)
	default:
		return VerifyPaymentResult{}, models.ErrInvalidState
	}
}

// VerifyFromChannel is the webhook-equivalent path: an external confirmation
// channel may drive the verified transition directly from awaiting_payment,
// recorded under the reserved system actor.
func (s *PaymentService) VerifyFromChannel(ctx context.Context, paymentID string) (VerifyPaymentResult, error) {
	p, err := s.PaymentRepo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return VerifyPaymentResult{}, models.ErrPaymentNotFound
		}
		return VerifyPaymentResult{}, err
	}
	if p.Status == models.PaymentVerified || p.Status == models.PaymentRejected {
		return s.decidedResult(ctx, p), nil
	}
	if !p.Status.CanTransition(models.PaymentVerified) {
		return VerifyPaymentResult{}, models.ErrInvalidState
	}
	return s.finalizeVerification(ctx, p, models.SystemActorID)
}

// finalizeVerification runs the verify saga in its fixed order: payment
// status, booking promotion, invoice creation, best-effort rendering, three
// audit entries. The payment update is the authoritative gate; failures
// after it are reported but never rolled back.
func (s *PaymentService) finalizeVerification(ctx context.Context, p models.Payment, actorID int) (VerifyPaymentResult, error) {
	now := s.now()

	ok, err := s.PaymentRepo.MarkVerified(ctx, p.ID, p.Status, actorID, now)
	if err != nil {
		return VerifyPaymentResult{}, err
	}
	if !ok {
		// Lost a race: someone else moved the payment first. Re-read and
		// fall into the idempotent path if it is already decided.
		cur, err := s.PaymentRepo.GetPaymentByID(ctx, p.ID)
		if err != nil {
			return VerifyPaymentResult{}, err
		}
		if cur.Status == models.PaymentVerified || cur.Status == models.PaymentRejected {
			return s.decidedResult(ctx, cur), nil
		}
		return VerifyPaymentResult{}, models.ErrInvalidState
	}
	p.Status = models.PaymentVerified
	p.VerifiedBy = &actorID
	p.VerifiedAt = &now
	p.UpdatedAt = &now

	if err := s.BookingRepo.UpdateStatus(ctx, p.BookingID, models.BookingConfirmed, now); err != nil {
		log.Printf("payment %s verified but booking %d was not confirmed: %v", p.ID, p.BookingID, err)
		return VerifyPaymentResult{}, err
	}

	inv, err := s.Invoices.IssueForPayment(ctx, p, s.accommodationDescription(ctx, p), now)
	if err != nil {
		log.Printf("payment %s verified but invoice creation failed: %v", p.ID, err)
		return VerifyPaymentResult{}, err
	}
	s.Invoices.RequestDocumentAsync(inv)

	links := paymentLinks(p)
	links.InvoiceID = &inv.ID
	if err := s.Audit.Record(ctx, actorID, models.ActionPaymentVerified,
		fmt.Sprintf("payment %s verified, amount %s %s", p.ID, FormatMajorUnits(p.Amount), p.Currency), links); err != nil {
		return VerifyPaymentResult{}, err
	}
	if err := s.Audit.Record(ctx, actorID, models.ActionInvoiceGenerated,
		fmt.Sprintf("invoice %s generated for payment %s", inv.Number, p.ID), links); err != nil {
		return VerifyPaymentResult{}, err
	}
	if err := s.Audit.Record(ctx, actorID, models.ActionBookingStatusChanged,
		fmt.Sprintf("booking %d confirmed", p.BookingID), links); err != nil {
		return VerifyPaymentResult{}, err
	}

	s.invalidatePending(ctx, p.OwnerID)
	s.notify(ctx, p, p.TenantID, "Payment verified",
		fmt.Sprintf("Your payment for booking %d was verified. Invoice %s is ready.", p.BookingID, inv.Number))

	result := VerifyPaymentResult{Payment: p, Invoice: &inv}
	if b, err := s.BookingRepo.GetBookingByID(ctx, p.BookingID); err == nil {
		result.Booking = &b
	}
	return result, nil
}

func (s *PaymentService) rejectPayment(ctx context.Context, p models.Payment, ownerID int, note string) (VerifyPaymentResult, error) {
	now := s.now()
	ok, err := s.PaymentRepo.MarkRejected(ctx, p.ID, p.Status, ownerID, note, now)
	if err != nil {
		return VerifyPaymentResult{}, err
	}
	if !ok {
		cur, err := s.PaymentRepo.GetPaymentByID(ctx, p.ID)
		if err != nil {
			return VerifyPaymentResult{}, err
		}
		if cur.Status == models.PaymentVerified || cur.Status == models.PaymentRejected {
			return s.decidedResult(ctx, cur), nil
		}
		return VerifyPaymentResult{}, models.ErrInvalidState
	}
	p.Status = models.PaymentRejected
	p.VerifiedBy = &ownerID
	p.RejectionReason = note
	p.UpdatedAt = &now

	details := fmt.Sprintf("payment %s rejected", p.ID)
	if note != "" {
		details += ": " + note
	}
	if err := s.Audit.Record(ctx, ownerID, models.ActionPaymentRejected, details, paymentLinks(p)); err != nil {
		return VerifyPaymentResult{}, err
	}

	s.invalidatePending(ctx, p.OwnerID)
	s.notify(ctx, p, p.TenantID, "Payment rejected",
		fmt.Sprintf("The owner could not confirm your transfer for booking %d.", p.BookingID))
	return VerifyPaymentResult{Payment: p}, nil
}

// RefundPayment records a refund against a verified payment. The refunded
// amount is tracked separately and may never exceed the paid amount.
func (s *PaymentService) RefundPayment(ctx context.Context, ownerID int, req models.RefundPaymentRequest) (models.Refund, error) {
	p, err := s.PaymentRepo.GetPaymentForOwner(ctx, req.PaymentID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return models.Refund{}, models.ErrPaymentNotFound
		}
		return models.Refund{}, err
	}
	if p.Status != models.PaymentVerified {
		return models.Refund{}, models.ErrPaymentNotFound
	}

	var refunded int64
	if p.RefundAmount != nil {
		refunded = *p.RefundAmount
	}
	if req.Amount <= 0 || req.Amount > p.Amount-refunded {
		return models.Refund{}, models.ErrInvalidRefundAmount
	}

	now := s.now()
	refund := models.Refund{
		ID:          uuid.New().String(),
		PaymentID:   p.ID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		Status:      models.RefundPending,
		ProcessorID: ownerID,
		CreatedAt:   now,
	}
	if err := s.RefundRepo.CreateRefund(ctx, refund); err != nil {
		return models.Refund{}, err
	}

	ok, err := s.PaymentRepo.MarkRefunded(ctx, p.ID, req.Amount, req.Reason, now)
	if err != nil {
		return models.Refund{}, err
	}
	if !ok {
		return models.Refund{}, models.ErrPaymentNotFound
	}
	p.Status = models.PaymentRefunded
	p.RefundAmount = &req.Amount
	p.RefundReason = req.Reason
	p.RefundedAt = &now

	details := fmt.Sprintf("refund of %s %s recorded for payment %s", FormatMajorUnits(req.Amount), p.Currency, p.ID)
	if err := s.Audit.Record(ctx, ownerID, models.ActionPaymentRefunded, details, paymentLinks(p)); err != nil {
		return models.Refund{}, err
	}

	s.notify(ctx, p, p.TenantID, "Refund issued",
		fmt.Sprintf("A refund of %s %s was issued for booking %d.", FormatMajorUnits(req.Amount), p.Currency, p.BookingID))
	return refund, nil
}

// PendingPayments lists an owner's payments awaiting verification, served
// from cache when fresh.
func (s *PaymentService) PendingPayments(ctx context.Context, ownerID int) ([]models.Payment, error) {
	if s.Cache != nil {
		if payments, ok := s.Cache.Get(ctx, ownerID); ok {
			return payments, nil
		}
	}
	payments, err := s.PaymentRepo.ListPendingByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, ownerID, payments)
	}
	return payments, nil
}

// AuditTrail returns the payment's history, oldest first. Only the tenant or
// the owner of the payment may read it.
func (s *PaymentService) AuditTrail(ctx context.Context, actorID int, paymentID string) ([]models.AuditLogEntry, error) {
	if _, err := s.PaymentRepo.GetPaymentForParticipant(ctx, paymentID, actorID); err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	return s.Audit.ByPayment(ctx, paymentID)
}

// Unreconciled is the reconciliation hook for support tooling: verified
// payments whose trailing saga steps never committed.
func (s *PaymentService) Unreconciled(ctx context.Context) ([]models.Payment, error) {
	return s.PaymentRepo.ListVerifiedMissingInvoice(ctx)
}

func (s *PaymentService) decidedResult(ctx context.Context, p models.Payment) VerifyPaymentResult {
	result := VerifyPaymentResult{Payment: p}
	if p.Status != models.PaymentVerified {
		return result
	}
	if inv, err := s.Invoices.InvoiceByPayment(ctx, p.ID); err == nil {
		result.Invoice = &inv
	}
	if b, err := s.BookingRepo.GetBookingByID(ctx, p.BookingID); err == nil {
		result.Booking = &b
	}
	return result
}

func (s *PaymentService) accommodationDescription(ctx context.Context, p models.Payment) string {
	booking, err := s.BookingRepo.GetBookingByID(ctx, p.BookingID)
	if err != nil {
		return fmt.Sprintf("Accommodation for booking %d", p.BookingID)
	}
	property, err := s.PropertyRepo.GetPropertyByID(ctx, booking.PropertyID)
	if err != nil {
		return fmt.Sprintf("Accommodation for booking %d, %d night(s)", p.BookingID, booking.Nights())
	}
	return fmt.Sprintf("Accommodation at %s, %d night(s) (%s - %s)",
		property.Name, booking.Nights(),
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"))
}

func (s *PaymentService) invalidatePending(ctx context.Context, ownerID int) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, ownerID)
	}
}

func (s *PaymentService) notify(ctx context.Context, p models.Payment, recipientID int, title, body string) {
	if s.Notifier != nil {
		s.Notifier.PaymentStatusChanged(ctx, p, recipientID, title, body)
	}
}

func paymentLinks(p models.Payment) models.AuditLinks {
	paymentID := p.ID
	bookingID := p.BookingID
	return models.AuditLinks{PaymentID: &paymentID, BookingID: &bookingID}
}

func ownerDisplayName(u models.User) string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}
