package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidBookingID   = errors.New("invalid booking id")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayError       = errors.New("payment gateway error")
)

const (
	// DefaultReleaseHoldback is how long after the end date funds stay held.
	DefaultReleaseHoldback = 24 * time.Hour

	maxTransitionAttempts = 3
)

// CreateBookingInput is the family's booking request.
type CreateBookingInput struct {
	FamilyID    string
	CaregiverID string
	JobID       string
	StartDate   time.Time
	EndDate     time.Time
	HoursPerDay int
	RatePerHour decimal.Decimal
}

// ReleaseSummary reports one release cycle.
type ReleaseSummary struct {
	Candidates int `json:"candidates"`
	Released   int `json:"released"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// IBookingUseCase is the booking lifecycle controller.
//
// Every mutation goes through one guarded transition: per-id lock, load,
// authorize, check precondition, compare-and-swap write. Authorization is
// checked before the precondition so callers without a role on the booking
// learn nothing about its state.

type IBookingUseCase interface {
	Create(ctx context.Context, caller entities.Caller, in CreateBookingInput) (entities.Booking, error)
	Get(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error)
	ListForCaller(ctx context.Context, caller entities.Caller) ([]entities.Booking, error)
	Accept(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error)
	Decline(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error)
	InitiateCheckout(ctx context.Context, caller entities.Caller, id string) (entities.Booking, interfaces.CheckoutSession, error)
	ConfirmPayment(ctx context.Context, id, paymentIntentID string) (entities.Booking, error)
	Complete(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error)
	Release(ctx context.Context, id string) (entities.Booking, error)
	ReleaseDuePayments(ctx context.Context) (ReleaseSummary, error)
}

type BookingUseCase struct {
	repo     interfaces.IBookingRepository
	gateway  interfaces.IPaymentGateway
	notifier interfaces.INotificationDispatcher
	holdback time.Duration
	locks    *bookingLocks
	now      func() time.Time
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

// NewBookingUseCase wires the controller. gateway and notifier may be nil:
// without a gateway checkout fails with ErrGatewayUnavailable, without a
// notifier events are dropped.
func NewBookingUseCase(repo interfaces.IBookingRepository, gateway interfaces.IPaymentGateway, notifier interfaces.INotificationDispatcher, holdback time.Duration) *BookingUseCase {
	if holdback <= 0 {
		holdback = DefaultReleaseHoldback
	}
	return &BookingUseCase{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		holdback: holdback,
		locks:    newBookingLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *BookingUseCase) Create(ctx context.Context, caller entities.Caller, in CreateBookingInput) (entities.Booking, error) {
	log.Printf("[booking][usecase] create start caller_id=%s caregiver_id=%s", caller.ID, in.CaregiverID)
	if caller.Role != entities.RoleFamily || strings.TrimSpace(caller.ID) == "" {
		return entities.Booking{}, fmt.Errorf("%w: only families create bookings", entities.ErrUnauthorized)
	}
	familyID := strings.TrimSpace(in.FamilyID)
	if familyID != "" && familyID != caller.ID {
		return entities.Booking{}, fmt.Errorf("%w: family_id does not match caller", entities.ErrUnauthorized)
	}
	caregiverID := strings.TrimSpace(in.CaregiverID)
	if caregiverID == "" {
		return entities.Booking{}, fmt.Errorf("%w: caregiver_id is required", entities.ErrInvalidInput)
	}
	if caregiverID == caller.ID {
		return entities.Booking{}, fmt.Errorf("%w: caregiver and family must differ", entities.ErrInvalidInput)
	}
	if !in.EndDate.After(in.StartDate) {
		// Zero-duration bookings would price at zero; they are rejected here.
		return entities.Booking{}, fmt.Errorf("%w: end_date must be after start_date", entities.ErrInvalidInput)
	}

	fees, err := entities.CalculateFees(in.RatePerHour, in.HoursPerDay, in.StartDate, in.EndDate)
	if err != nil {
		log.Printf("[booking][usecase] create invalid input caller_id=%s err=%v", caller.ID, err)
		return entities.Booking{}, err
	}

	now := u.now()
	b := entities.Booking{
		ID:              uuid.NewString(),
		FamilyID:        caller.ID,
		CaregiverID:     caregiverID,
		JobID:           strings.TrimSpace(in.JobID),
		StartDate:       in.StartDate.UTC(),
		EndDate:         in.EndDate.UTC(),
		HoursPerDay:     in.HoursPerDay,
		RatePerHour:     in.RatePerHour.Round(2),
		TotalAmount:     fees.TotalAmount,
		ServiceFee:      fees.ServiceFee,
		CaregiverAmount: fees.CaregiverAmount,
		Status:          entities.BookingStatusPending,
		PaymentStatus:   entities.PaymentStatusUnpaid,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := u.repo.Create(ctx, b)
	if err != nil {
		log.Printf("[booking][usecase] create repository failed booking_id=%s err=%v", b.ID, err)
		return entities.Booking{}, err
	}
	log.Printf("[booking][usecase] create success booking_id=%s total=%s fee=%s", created.ID, created.TotalAmount.StringFixed(2), created.ServiceFee.StringFixed(2))
	u.notify(ctx, interfaces.EventBookingCreated, created)
	return created, nil
}

func (u *BookingUseCase) Get(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error) {
	b, err := u.load(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if err := b.AuthorizeRead(caller); err != nil {
		return entities.Booking{}, err
	}
	return b, nil
}

func (u *BookingUseCase) ListForCaller(ctx context.Context, caller entities.Caller) ([]entities.Booking, error) {
	if strings.TrimSpace(caller.ID) == "" {
		return nil, fmt.Errorf("%w: anonymous caller", entities.ErrUnauthorized)
	}
	if caller.Role != entities.RoleFamily && caller.Role != entities.RoleCaregiver {
		return []entities.Booking{}, nil
	}
	return u.repo.ListByParty(ctx, caller)
}

func (u *BookingUseCase) Accept(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error) {
	b, err := u.transition(ctx, "accept", id,
		func(b entities.Booking) error { return b.AuthorizeCaregiver(caller) },
		func(b *entities.Booking, now time.Time) error { return b.Accept(now) },
	)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notify(ctx, interfaces.EventBookingAccepted, b)
	return b, nil
}

func (u *BookingUseCase) Decline(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error) {
	b, err := u.transition(ctx, "decline", id,
		func(b entities.Booking) error { return b.AuthorizeCaregiver(caller) },
		func(b *entities.Booking, now time.Time) error { return b.Decline(now) },
	)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notify(ctx, interfaces.EventBookingDeclined, b)
	return b, nil
}

// InitiateCheckout opens a provider checkout without holding the booking
// lock across the network call. Eligibility is checked before the call and
// re-checked when the session id is committed.
func (u *BookingUseCase) InitiateCheckout(ctx context.Context, caller entities.Caller, id string) (entities.Booking, interfaces.CheckoutSession, error) {
	id = strings.TrimSpace(id)
	log.Printf("[booking][usecase] checkout start booking_id=%s caller_id=%s", id, caller.ID)

	unlock := u.locks.lock(id)
	current, err := u.load(ctx, id)
	if err == nil {
		err = current.AuthorizeFamily(caller)
	}
	if err == nil {
		err = current.CheckCheckout()
	}
	unlock()
	if err != nil {
		log.Printf("[booking][usecase] checkout rejected booking_id=%s err=%v", id, err)
		return entities.Booking{}, interfaces.CheckoutSession{}, err
	}

	if u.gateway == nil {
		log.Printf("[booking][usecase] checkout gateway not configured booking_id=%s", id)
		return entities.Booking{}, interfaces.CheckoutSession{}, ErrGatewayUnavailable
	}

	session, err := u.gateway.CreateCheckoutSession(ctx, interfaces.CheckoutRequest{
		BookingID:   current.ID,
		AmountMinor: current.AmountMinorUnits(),
		Title:       fmt.Sprintf("Childcare booking %s", current.ID),
		PayerRef:    current.FamilyID,
	})
	if err != nil {
		log.Printf("[booking][usecase] checkout gateway failed booking_id=%s err=%v", id, err)
		if errors.Is(err, ErrGatewayUnavailable) {
			return entities.Booking{}, interfaces.CheckoutSession{}, err
		}
		return entities.Booking{}, interfaces.CheckoutSession{}, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}

	b, err := u.transition(ctx, "checkout", id,
		func(b entities.Booking) error { return b.AuthorizeFamily(caller) },
		func(b *entities.Booking, now time.Time) error { return b.InitiateCheckout(session.ID, now) },
	)
	if err != nil {
		log.Printf("[booking][usecase] checkout commit failed booking_id=%s session_id=%s err=%v", id, session.ID, err)
		return entities.Booking{}, interfaces.CheckoutSession{}, err
	}
	u.notify(ctx, interfaces.EventBookingCheckoutStarted, b)
	return b, session, nil
}

func (u *BookingUseCase) ConfirmPayment(ctx context.Context, id, paymentIntentID string) (entities.Booking, error) {
	if strings.TrimSpace(paymentIntentID) == "" {
		return entities.Booking{}, fmt.Errorf("%w: empty payment intent id", entities.ErrInvalidInput)
	}
	b, err := u.transition(ctx, "confirm-payment", id, nil,
		func(b *entities.Booking, now time.Time) error { return b.ConfirmPayment(paymentIntentID, now) },
	)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notify(ctx, interfaces.EventBookingPaid, b)
	return b, nil
}

func (u *BookingUseCase) Complete(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error) {
	b, err := u.transition(ctx, "complete", id,
		func(b entities.Booking) error { return b.AuthorizeFamily(caller) },
		func(b *entities.Booking, now time.Time) error { return b.Complete(now) },
	)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notify(ctx, interfaces.EventBookingCompleted, b)
	return b, nil
}

func (u *BookingUseCase) Release(ctx context.Context, id string) (entities.Booking, error) {
	b, err := u.transition(ctx, "release", id, nil,
		func(b *entities.Booking, now time.Time) error { return b.Release(now, u.holdback) },
	)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notify(ctx, interfaces.EventBookingReleased, b)
	return b, nil
}

// ReleaseDuePayments runs one release cycle. A failure on one booking is
// logged and counted; the scan continues and the next cycle retries it.
func (u *BookingUseCase) ReleaseDuePayments(ctx context.Context) (ReleaseSummary, error) {
	now := u.now()
	cutoff := now.Add(-u.holdback)
	candidates, err := u.repo.ListReleasable(ctx, cutoff)
	if err != nil {
		log.Printf("[booking][release] list candidates failed cutoff=%s err=%v", cutoff.Format(time.RFC3339), err)
		return ReleaseSummary{}, err
	}

	summary := ReleaseSummary{Candidates: len(candidates)}
	for _, c := range candidates {
		if _, err := u.Release(ctx, c.ID); err != nil {
			if errors.Is(err, entities.ErrIllegalTransition) || errors.Is(err, ErrBookingNotFound) {
				summary.Skipped++
				continue
			}
			summary.Failed++
			log.Printf("[booking][release] release failed booking_id=%s err=%v", c.ID, err)
			continue
		}
		summary.Released++
	}
	log.Printf("[booking][release] cycle done candidates=%d released=%d skipped=%d failed=%d",
		summary.Candidates, summary.Released, summary.Skipped, summary.Failed)
	return summary, nil
}

// transition is the single write path for booking state.
func (u *BookingUseCase) transition(
	ctx context.Context,
	op string,
	id string,
	authorize func(entities.Booking) error,
	apply func(b *entities.Booking, now time.Time) error,
) (entities.Booking, error) {
	id = strings.TrimSpace(id)
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		next, err := u.transitionOnce(ctx, id, authorize, apply)
		if errors.Is(err, interfaces.ErrVersionConflict) {
			log.Printf("[booking][usecase] %s version conflict booking_id=%s attempt=%d", op, id, attempt)
			continue
		}
		if err != nil {
			log.Printf("[booking][usecase] %s failed booking_id=%s err=%v", op, id, err)
			return entities.Booking{}, err
		}
		log.Printf("[booking][usecase] %s success booking_id=%s status=%s payment_status=%s", op, id, next.Status, next.PaymentStatus)
		return next, nil
	}
	return entities.Booking{}, fmt.Errorf("%w: booking %s kept changing concurrently", entities.ErrIllegalTransition, id)
}

func (u *BookingUseCase) transitionOnce(
	ctx context.Context,
	id string,
	authorize func(entities.Booking) error,
	apply func(b *entities.Booking, now time.Time) error,
) (entities.Booking, error) {
	unlock := u.locks.lock(id)
	defer unlock()

	current, err := u.load(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if authorize != nil {
		if err := authorize(current); err != nil {
			return entities.Booking{}, err
		}
	}

	next := current.Clone()
	if err := apply(&next, u.now()); err != nil {
		return entities.Booking{}, err
	}
	next.Version = current.Version + 1
	if err := u.repo.Update(ctx, next, current.Version); err != nil {
		return entities.Booking{}, err
	}
	return next, nil
}

func (u *BookingUseCase) load(ctx context.Context, id string) (entities.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}
	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if b.ID == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (u *BookingUseCase) notify(ctx context.Context, eventType string, b entities.Booking) {
	if u.notifier == nil {
		return
	}
	evt := interfaces.BookingEvent{
		Type:          eventType,
		Version:       1,
		OccurredAt:    u.now(),
		BookingID:     b.ID,
		FamilyID:      b.FamilyID,
		CaregiverID:   b.CaregiverID,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
	}
	if err := u.notifier.Dispatch(ctx, evt); err != nil {
		log.Printf("[booking][notify] dispatch failed event=%s booking_id=%s err=%v", eventType, b.ID, err)
	}
}
