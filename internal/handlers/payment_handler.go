package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"stayBack/internal/models"
	"stayBack/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService

	// WebhookKeyHash is the bcrypt hash of the API key the external
	// confirmation channel authenticates with.
	WebhookKeyHash string
}

// POST /payments/create
// { "booking_id": 42, "amount": 300000 }
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body")
		return
	}
	if req.BookingID == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "booking_id is required")
		return
	}

	result, err := h.Service.CreatePayment(r.Context(), actorID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"payment_id":  result.Payment.ID,
		"amount":      result.Payment.Amount,
		"upi_uri":     result.Payment.UpiURI,
		"qr_data_url": result.QRDataURL,
	})
}

// POST /payments/confirm
// { "payment_id": "...", "reference": "UTR..." }
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body")
		return
	}
	if req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payment_id is required")
		return
	}

	p, err := h.Service.ConfirmPayment(r.Context(), actorID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"payment_id": p.ID,
		"status":     p.Status,
	})
}

// POST /payments/verify
// { "payment_id": "...", "decision": "verify"|"reject", "note": "..." }
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body")
		return
	}
	if req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payment_id is required")
		return
	}
	if req.Decision != "verify" && req.Decision != "reject" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "decision must be verify or reject")
		return
	}

	result, err := h.Service.VerifyPayment(r.Context(), actorID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"success":    true,
		"payment_id": result.Payment.ID,
		"status":     result.Payment.Status,
	}
	if result.Invoice != nil {
		resp["invoice"] = result.Invoice
	}
	if result.Booking != nil {
		resp["booking"] = result.Booking
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /payments/refund
// { "payment_id": "...", "amount": 150000, "reason": "..." }
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req models.RefundPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body")
		return
	}
	if req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payment_id is required")
		return
	}

	refund, err := h.Service.RefundPayment(r.Context(), actorID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"refund_id":  refund.ID,
		"payment_id": refund.PaymentID,
		"amount":     refund.Amount,
		"status":     refund.Status,
	})
}

// GET /payments/pending
func (h *PaymentHandler) PendingPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.PendingPayments(r.Context(), actorID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"payments": payments,
	})
}

// GET /payments/:id/audit
func (h *PaymentHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	paymentID := getParam(r, "id")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "missing payment id")
		return
	}

	entries, err := h.Service.AuditTrail(r.Context(), actorID(r), paymentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entries": entries,
	})
}

// POST /payments/webhook
// External confirmation channel; authenticates with X-Api-Key and drives the
// verified transition under the system actor.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-Api-Key")
	if h.WebhookKeyHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(h.WebhookKeyHash), []byte(key)) != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid api key")
		return
	}

	var req struct {
		PaymentID string `json:"payment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payment_id is required")
		return
	}

	result, err := h.Service.VerifyFromChannel(r.Context(), req.PaymentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"payment_id": result.Payment.ID,
		"status":     result.Payment.Status,
	})
}
