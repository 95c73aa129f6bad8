package services

import (
	"context"
	"log"

	"firebase.google.com/go/messaging"

	"stayBack/internal/models"
)

// DeviceTokenStore resolves a user's FCM registration tokens.
type DeviceTokenStore interface {
	GetDeviceTokens(ctx context.Context, userID int) ([]string, error)
}

// EventPusher delivers a payment event to a connected client, if any.
type EventPusher interface {
	PushPaymentEvent(userID int, event models.PaymentEvent)
}

// NotificationService informs the counterparty of a payment transition via
// FCM push and the websocket channel. Everything here is best effort; a
// notification failure never fails the payment operation.
type NotificationService struct {
	FCM    *messaging.Client
	Tokens DeviceTokenStore
	Pusher EventPusher
}

func (s *NotificationService) PaymentStatusChanged(ctx context.Context, p models.Payment, recipientID int, title, body string) {
	if s == nil {
		return
	}
	if s.Pusher != nil {
		s.Pusher.PushPaymentEvent(recipientID, models.PaymentEvent{
			PaymentID: p.ID,
			BookingID: p.BookingID,
			Status:    p.Status,
		})
	}
	if s.FCM == nil || s.Tokens == nil {
		return
	}
	tokens, err := s.Tokens.GetDeviceTokens(ctx, recipientID)
	if err != nil {
		log.Printf("payment %s: loading device tokens for user %d failed: %v", p.ID, recipientID, err)
		return
	}
	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: map[string]string{
				"payment_id": p.ID,
				"status":     string(p.Status),
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority": "10",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{
							Title: title,
							Body:  body,
						},
						Sound: "default",
					},
				},
			},
		}
		if _, err := s.FCM.Send(ctx, message); err != nil {
			log.Printf("payment %s: push to user %d failed: %v", p.ID, recipientID, err)
		}
	}
}
