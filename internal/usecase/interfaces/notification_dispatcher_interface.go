package interfaces

import (
	"context"
	"time"

	"careconnect/internal/domain/entities"
)

const (
	EventBookingCreated         = "booking.created"
	EventBookingAccepted        = "booking.accepted"
	EventBookingDeclined        = "booking.declined"
	EventBookingCheckoutStarted = "booking.checkout_started"
	EventBookingPaid            = "booking.paid"
	EventBookingCompleted       = "booking.completed"
	EventBookingReleased        = "booking.released"
)

// BookingEvent is published after every successful booking transition.
type BookingEvent struct {
	Type          string                 `json:"event"`
	Version       int                    `json:"version"`
	OccurredAt    time.Time              `json:"occurred_at"`
	BookingID     string                 `json:"booking_id"`
	FamilyID      string                 `json:"family_id"`
	CaregiverID   string                 `json:"caregiver_id"`
	Status        entities.BookingStatus `json:"status"`
	PaymentStatus entities.PaymentStatus `json:"payment_status"`
}

// INotificationDispatcher fans booking events out to email/SMS workers.
// Delivery is fire-and-forget: callers log failures and carry on.
type INotificationDispatcher interface {
	Dispatch(ctx context.Context, event BookingEvent) error
}
