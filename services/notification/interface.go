package notification

import (
	"context"

	"crewly/models"
)

// Publisher hands booking events to external collaborators. Delivery is
// best-effort: the booking state machines never fail a transition
// because an event could not be published.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
}
