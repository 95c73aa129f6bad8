package models

import (
	"errors"
)

var (
	ErrNoRecord            = errors.New("models: no matching record found")
	ErrBookingNotFound     = errors.New("models: booking not found")
	ErrPaymentNotFound     = errors.New("models: payment not found")
	ErrPaymentExists       = errors.New("models: active payment already exists for booking")
	ErrInvalidState        = errors.New("models: payment is not in a state that allows this transition")
	ErrInvalidRefundAmount = errors.New("models: refund amount exceeds refundable balance")
	ErrInvoiceNotFound     = errors.New("models: invoice not found")
	ErrUserNotFound        = errors.New("models: user not found")
	ErrPropertyNotFound    = errors.New("models: property not found")
)
