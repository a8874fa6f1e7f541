package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"
)

// BookingMemoryRepository keeps bookings in process memory.
// It backs BOOKING_STORE=memory and the lifecycle tests.
type BookingMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]entities.Booking
}

var _ interfaces.IBookingRepository = (*BookingMemoryRepository)(nil)

func NewBookingMemoryRepository() *BookingMemoryRepository {
	return &BookingMemoryRepository{items: make(map[string]entities.Booking)}
}

func (r *BookingMemoryRepository) Create(_ context.Context, b entities.Booking) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; ok {
		return entities.Booking{}, fmt.Errorf("booking %s already exists", b.ID)
	}
	r.items[b.ID] = b.Clone()
	return b, nil
}

func (r *BookingMemoryRepository) GetByID(_ context.Context, id string) (entities.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return entities.Booking{}, nil
	}
	return b.Clone(), nil
}

func (r *BookingMemoryRepository) Update(_ context.Context, b entities.Booking, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[b.ID]
	if !ok || current.Version != expectedVersion {
		return interfaces.ErrVersionConflict
	}
	r.items[b.ID] = b.Clone()
	return nil
}

func (r *BookingMemoryRepository) ListByParty(_ context.Context, caller entities.Caller) ([]entities.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.Booking, 0)
	for _, b := range r.items {
		if b.IsParty(caller) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BookingMemoryRepository) ListReleasable(_ context.Context, endDateCutoff time.Time) ([]entities.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.Booking, 0)
	for _, b := range r.items {
		if b.PaymentStatus == entities.PaymentStatusPaidUnreleased && !b.EndDate.After(endDateCutoff) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}
