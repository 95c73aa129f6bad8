package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"stayBack/internal/models"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: errorBody{Code: code, Message: message}})
}

// writeServiceError maps the service sentinels onto the stable wire codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found")
	case errors.Is(err, models.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found")
	case errors.Is(err, models.ErrPaymentExists):
		writeError(w, http.StatusConflict, "PAYMENT_EXISTS", "an active payment already exists for this booking")
	case errors.Is(err, models.ErrInvalidState):
		writeError(w, http.StatusConflict, "INVALID_STATE", "payment is not in a state that allows this operation")
	case errors.Is(err, models.ErrInvalidRefundAmount):
		writeError(w, http.StatusBadRequest, "INVALID_REFUND_AMOUNT", "refund amount exceeds the refundable balance")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
