package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Role is the marketplace side a caller acts for.
type Role string

const (
	RoleFamily    Role = "family"
	RoleCaregiver Role = "caregiver"
	RoleAdmin     Role = "admin"
)

// ParseRole accepts the role claim of an identity token.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFamily, RoleCaregiver, RoleAdmin:
		return r, true
	}
	return "", false
}

// Caller is the authenticated party behind a request.
type Caller struct {
	ID   string
	Role Role
}

// Authorization predicates. Every operation picks exactly one of these.

func (b Booking) IsFamily(c Caller) bool {
	return c.Role == RoleFamily && c.ID != "" && c.ID == b.FamilyID
}

func (b Booking) IsCaregiver(c Caller) bool {
	return c.Role == RoleCaregiver && c.ID != "" && c.ID == b.CaregiverID
}

func (b Booking) IsParty(c Caller) bool {
	return b.IsFamily(c) || b.IsCaregiver(c)
}

// AuthorizeFamily fails with ErrUnauthorized unless c is the booking's family.
func (b Booking) AuthorizeFamily(c Caller) error {
	if !b.IsFamily(c) {
		return fmt.Errorf("%w: caller is not the family of booking %s", ErrUnauthorized, b.ID)
	}
	return nil
}

// AuthorizeCaregiver fails with ErrUnauthorized unless c is the booking's caregiver.
func (b Booking) AuthorizeCaregiver(c Caller) error {
	if !b.IsCaregiver(c) {
		return fmt.Errorf("%w: caller is not the caregiver of booking %s", ErrUnauthorized, b.ID)
	}
	return nil
}

// AuthorizeRead lets the two parties and admins read a booking.
func (b Booking) AuthorizeRead(c Caller) error {
	if b.IsParty(c) || c.Role == RoleAdmin {
		return nil
	}
	return fmt.Errorf("%w: caller is not a party of booking %s", ErrUnauthorized, b.ID)
}

// Transitions. Each checks its precondition first and mutates nothing on failure.

func (b *Booking) Accept(now time.Time) error {
	if b.Status != BookingStatusPending {
		return illegal("accept", b)
	}
	b.Status = BookingStatusConfirmed
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Decline(now time.Time) error {
	if b.Status != BookingStatusPending {
		return illegal("decline", b)
	}
	b.Status = BookingStatusDeclined
	b.UpdatedAt = now
	return nil
}

// CheckCheckout reports whether a checkout session may be opened.
// A booking already in payment_initiated may open a new session; the new
// session id replaces the previous one.
func (b Booking) CheckCheckout() error {
	if b.Status != BookingStatusConfirmed {
		return illegal("checkout", &b)
	}
	if b.PaymentStatus != PaymentStatusUnpaid && b.PaymentStatus != PaymentStatusPaymentInitiated {
		return illegal("checkout", &b)
	}
	return nil
}

func (b *Booking) InitiateCheckout(sessionID string, now time.Time) error {
	if err := b.CheckCheckout(); err != nil {
		return err
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: empty checkout session id", ErrInvalidInput)
	}
	b.PaymentStatus = PaymentStatusPaymentInitiated
	b.CheckoutSessionID = sessionID
	b.UpdatedAt = now
	return nil
}

// ConfirmPayment records a captured payment. The family may already have
// completed the booking while the provider notification was in flight.
func (b *Booking) ConfirmPayment(paymentIntentID string, now time.Time) error {
	if b.PaymentStatus != PaymentStatusPaymentInitiated || !b.engaged() {
		return illegal("confirm payment", b)
	}
	b.PaymentStatus = PaymentStatusPaidUnreleased
	b.PaymentIntentID = paymentIntentID
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != BookingStatusConfirmed {
		return illegal("complete", b)
	}
	completedAt := now
	b.Status = BookingStatusCompleted
	b.CompletedAt = &completedAt
	b.UpdatedAt = now
	return nil
}

// ReleaseDue reports whether the holdback window has passed for a paid booking.
func (b Booking) ReleaseDue(now time.Time, holdback time.Duration) bool {
	if !b.engaged() {
		return false
	}
	if b.PaymentStatus != PaymentStatusPaidUnreleased {
		return false
	}
	return !now.Before(b.ReleaseDueAt(holdback))
}

func (b *Booking) Release(now time.Time, holdback time.Duration) error {
	if !b.ReleaseDue(now, holdback) {
		return illegal("release", b)
	}
	releasedAt := now
	b.PaymentStatus = PaymentStatusReleased
	b.PersonalDetailsVisible = true
	b.ReleasedAt = &releasedAt
	b.UpdatedAt = now
	return nil
}

// engaged is true once the caregiver accepted, completed or not.
func (b Booking) engaged() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCompleted
}

func illegal(op string, b *Booking) error {
	return fmt.Errorf("%w: cannot %s booking %s (status=%s payment_status=%s)",
		ErrIllegalTransition, op, b.ID, b.Status, b.PaymentStatus)
}
