package interfaces

import (
	"context"
	"errors"
	"time"

	"careconnect/internal/domain/entities"
)

// ErrVersionConflict is returned by Update when the stored version no longer
// matches the expected one, i.e. another writer got there first.
var ErrVersionConflict = errors.New("booking version conflict")

// IBookingRepository abstracts persistence for Booking.
//
// Contract:
//   - GetByID returns a zero Booking and nil error when the id is unknown.
//   - Update is a compare-and-swap: it writes b only if the stored version
//     equals expectedVersion, otherwise it fails with ErrVersionConflict.
//   - ListReleasable returns paid_unreleased bookings whose end date is at or
//     before endDateCutoff. Callers re-check every candidate under lock.

type IBookingRepository interface {
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)
	GetByID(ctx context.Context, id string) (entities.Booking, error)
	Update(ctx context.Context, b entities.Booking, expectedVersion int64) error
	ListByParty(ctx context.Context, caller entities.Caller) ([]entities.Booking, error)
	ListReleasable(ctx context.Context, endDateCutoff time.Time) ([]entities.Booking, error)
}
