package messaging

import (
	"context"
	"log"

	"careconnect/internal/usecase/interfaces"
)

// LogNotifier writes booking events to the log when no broker is configured.
type LogNotifier struct{}

var _ interfaces.INotificationDispatcher = LogNotifier{}

func (LogNotifier) Dispatch(_ context.Context, event interfaces.BookingEvent) error {
	log.Printf("[booking][notify] event=%s booking_id=%s family_id=%s caregiver_id=%s status=%s payment_status=%s",
		event.Type, event.BookingID, event.FamilyID, event.CaregiverID, event.Status, event.PaymentStatus)
	return nil
}
