package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"
)

func TestBookingMemoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get unknown returns zero value", func(t *testing.T) {
		r := NewBookingMemoryRepository()
		b, err := r.GetByID(ctx, "missing")
		if err != nil || b.ID != "" {
			t.Fatalf("expected zero booking, got %+v err=%v", b, err)
		}
	})

	t.Run("create rejects duplicate ids", func(t *testing.T) {
		r := NewBookingMemoryRepository()
		if _, err := r.Create(ctx, sampleBooking()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := r.Create(ctx, sampleBooking()); err == nil {
			t.Fatalf("expected duplicate error")
		}
	})

	t.Run("update is compare and swap", func(t *testing.T) {
		r := NewBookingMemoryRepository()
		b := sampleBooking()
		_, _ = r.Create(ctx, b)

		next := b.Clone()
		next.Version = b.Version + 1
		if err := r.Update(ctx, next, b.Version); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stale := b.Clone()
		stale.Version = b.Version + 1
		if err := r.Update(ctx, stale, b.Version); !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("stored copy is isolated from caller mutation", func(t *testing.T) {
		r := NewBookingMemoryRepository()
		b := sampleBooking()
		_, _ = r.Create(ctx, b)
		*b.CompletedAt = time.Time{}

		got, _ := r.GetByID(ctx, b.ID)
		if got.CompletedAt == nil || got.CompletedAt.IsZero() {
			t.Fatalf("stored booking was mutated through caller pointer")
		}
	})

	t.Run("list by party", func(t *testing.T) {
		r := NewBookingMemoryRepository()
		b := sampleBooking()
		other := sampleBooking()
		other.ID, other.FamilyID, other.CaregiverID = "b-2", "fam-2", "cg-2"
		_, _ = r.Create(ctx, b)
		_, _ = r.Create(ctx, other)

		got, _ := r.ListByParty(ctx, entities.Caller{ID: "cg-1", Role: entities.RoleCaregiver})
		if len(got) != 1 || got[0].ID != "b-1" {
			t.Fatalf("unexpected caregiver list: %+v", got)
		}
		got, _ = r.ListByParty(ctx, entities.Caller{ID: "cg-1", Role: entities.RoleFamily})
		if len(got) != 0 {
			t.Fatalf("role must match the side of the booking, got %+v", got)
		}
	})

	t.Run("list releasable filters status and cutoff", func(t *testing.T) {
		r := NewBookingMemoryRepository()
		due := sampleBooking()
		future := sampleBooking()
		future.ID = "b-future"
		future.EndDate = due.EndDate.AddDate(0, 0, 5)
		released := sampleBooking()
		released.ID = "b-released"
		released.PaymentStatus = entities.PaymentStatusReleased
		for _, b := range []entities.Booking{due, future, released} {
			_, _ = r.Create(ctx, b)
		}

		got, _ := r.ListReleasable(ctx, due.EndDate)
		if len(got) != 1 || got[0].ID != due.ID {
			t.Fatalf("unexpected releasable list: %+v", got)
		}
	})
}
