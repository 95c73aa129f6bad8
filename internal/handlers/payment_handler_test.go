package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"stayBack/internal/models"
	"stayBack/internal/repositories"
	"stayBack/internal/services"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return resp
}

func authedRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	return r.WithContext(context.WithValue(r.Context(), "user_id", 11))
}

func TestCreatePayment_RejectsInvalidBody(t *testing.T) {
	h := &PaymentHandler{}

	rr := httptest.NewRecorder()
	h.CreatePayment(rr, authedRequest(http.MethodPost, "/payments/create", "{not json"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Success || resp.Error.Code != "VALIDATION" {
		t.Errorf("unexpected envelope: %+v", resp)
	}

	rr = httptest.NewRecorder()
	h.CreatePayment(rr, authedRequest(http.MethodPost, "/payments/create", `{"amount": 100}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing booking_id: status = %d, want 400", rr.Code)
	}
}

func TestVerifyPayment_RejectsUnknownDecision(t *testing.T) {
	h := &PaymentHandler{}

	rr := httptest.NewRecorder()
	h.VerifyPayment(rr, authedRequest(http.MethodPost, "/payments/verify",
		`{"payment_id": "p1", "decision": "approve"}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error.Code != "VALIDATION" {
		t.Errorf("code = %q, want VALIDATION", resp.Error.Code)
	}
}

func TestConfirmPayment_RequiresPaymentID(t *testing.T) {
	h := &PaymentHandler{}

	rr := httptest.NewRecorder()
	h.ConfirmPayment(rr, authedRequest(http.MethodPost, "/payments/confirm", `{"reference": "UTR1"}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestWriteServiceError_StableCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{models.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{models.ErrPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
		{models.ErrPaymentExists, http.StatusConflict, "PAYMENT_EXISTS"},
		{models.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{models.ErrInvalidRefundAmount, http.StatusBadRequest, "INVALID_REFUND_AMOUNT"},
		{context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		writeServiceError(rr, tt.err)
		if rr.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, rr.Code, tt.status)
		}
		if resp := decodeError(t, rr); resp.Error.Code != tt.code {
			t.Errorf("%v: code = %q, want %q", tt.err, resp.Error.Code, tt.code)
		}
	}
}

// emptyPaymentStore satisfies the store interface but holds no payments, so
// every lookup misses.
type emptyPaymentStore struct {
	services.PaymentStore
}

func (emptyPaymentStore) GetPaymentByID(context.Context, string) (models.Payment, error) {
	return models.Payment{}, repositories.ErrPaymentNotFound
}

func TestWebhook_Auth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("channel-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing key: %v", err)
	}
	h := &PaymentHandler{
		Service:        &services.PaymentService{PaymentRepo: emptyPaymentStore{}},
		WebhookKeyHash: string(hash),
	}

	// Wrong key.
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{"payment_id": "p1"}`))
	r.Header.Set("X-Api-Key", "wrong")
	h.Webhook(rr, r)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", rr.Code)
	}

	// Right key, unknown payment: auth passed, lookup missed.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{"payment_id": "p1"}`))
	r.Header.Set("X-Api-Key", "channel-secret")
	h.Webhook(rr, r)
	if rr.Code != http.StatusNotFound {
		t.Errorf("right key: status = %d, want 404", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error.Code != "PAYMENT_NOT_FOUND" {
		t.Errorf("code = %q, want PAYMENT_NOT_FOUND", resp.Error.Code)
	}
}

func TestWebhook_NoKeyConfiguredRejectsAll(t *testing.T) {
	h := &PaymentHandler{}

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{"payment_id": "p1"}`))
	r.Header.Set("X-Api-Key", "")
	h.Webhook(rr, r)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestGetParam_ColonAndPlainForms(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/payments/audit?:id=abc", nil)
	if got := getParam(r, "id"); got != "abc" {
		t.Errorf("colon form: got %q", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/payments/audit?id=def", nil)
	if got := getParam(r, "id"); got != "def" {
		t.Errorf("plain form: got %q", got)
	}
}
