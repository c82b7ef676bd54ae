package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"crewly/models"
	"crewly/utils"
)

// CaptureTrigger fires the wallet/payment capture when a booking is
// confirmed. Best-effort: capture failures are reported to the caller
// but never roll back the confirmation.
type CaptureTrigger interface {
	CaptureBookingPayment(ctx context.Context, booking *models.Booking) error
}

// StripeGateway captures the payment intent reserved by the checkout
// flow (owned by the payments subsystem, outside this engine).
type StripeGateway struct{}

func (g *StripeGateway) CaptureBookingPayment(ctx context.Context, booking *models.Booking) error {
	if booking.PaymentIntentID == "" {
		// Pay-on-site bookings carry no intent; nothing to capture.
		return nil
	}

	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	_, err := paymentintent.Capture(booking.PaymentIntentID, params)
	if err != nil {
		utils.GetLogger().Warn("payment capture failed",
			zap.String("bookingId", booking.ID),
			zap.String("paymentIntentId", booking.PaymentIntentID),
			zap.Error(err))
		return err
	}
	utils.GetLogger().Info("payment captured",
		zap.String("bookingId", booking.ID),
		zap.String("paymentIntentId", booking.PaymentIntentID))
	return nil
}
