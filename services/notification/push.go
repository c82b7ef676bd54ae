package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"crewly/models"
	"crewly/utils"
)

// SendBookingPush delivers a booking event as an FCM topic message. Each
// customer subscribes to their own topic from the client app.
func SendBookingPush(ctx context.Context, event models.BookingEvent) error {
	client := utils.FCMClient
	if client == nil {
		return fmt.Errorf("fcm client not initialized")
	}

	msg := &messaging.Message{
		Topic: "customer-" + event.CustomerID,
		Notification: &messaging.Notification{
			Title: pushTitle(event.Kind),
			Body:  fmt.Sprintf("Booking %s on %s", event.BookingID, event.Date),
		},
		Data: map[string]string{
			"kind":      event.Kind,
			"bookingId": event.BookingID,
			"serviceId": event.ServiceID,
			"date":      event.Date,
		},
	}
	_, err := client.Send(ctx, msg)
	return err
}

func pushTitle(kind string) string {
	switch kind {
	case models.EventBookingConfirmed:
		return "Booking confirmed"
	case models.EventBookingCancelled:
		return "Booking cancelled"
	case models.EventBookingCompleted:
		return "Booking completed"
	default:
		return "Booking update"
	}
}
