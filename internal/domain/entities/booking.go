package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the engagement axis of a booking.
//
// Lifecycle:
//   - pending   -> confirmed (caregiver accepts)
//   - pending   -> declined  (caregiver declines, terminal)
//   - confirmed -> completed (family marks the work done, terminal)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentStatus is the money axis of a booking. It only moves forward:
// unpaid -> payment_initiated -> paid_unreleased -> released.

type PaymentStatus string

const (
	PaymentStatusUnpaid           PaymentStatus = "unpaid"
	PaymentStatusPaymentInitiated PaymentStatus = "payment_initiated"
	PaymentStatusPaidUnreleased   PaymentStatus = "paid_unreleased"
	PaymentStatusReleased         PaymentStatus = "released"
)

var paymentStatusRank = map[PaymentStatus]int{
	PaymentStatusUnpaid:           0,
	PaymentStatusPaymentInitiated: 1,
	PaymentStatusPaidUnreleased:   2,
	PaymentStatusReleased:         3,
}

// Rank orders payment statuses; unknown values rank below unpaid.
func (s PaymentStatus) Rank() int {
	if r, ok := paymentStatusRank[s]; ok {
		return r
	}
	return -1
}

// Booking is the central entity of the payment lifecycle.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI family_id-index: family_id
//   - GSI caregiver_id-index: caregiver_id
//   - GSI payment_status-end_date-index: payment_status + end_date (release scan)
//
// Concurrency:
//   - Version is bumped on every write and used as the compare-and-swap guard.
//
// Privacy:
//   - PersonalDetailsVisible flips to true only together with PaymentStatusReleased.
type Booking struct {
	ID          string `json:"id"`
	FamilyID    string `json:"family_id"`
	CaregiverID string `json:"caregiver_id"`
	JobID       string `json:"job_id,omitempty"`

	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	HoursPerDay int             `json:"hours_per_day"`
	RatePerHour decimal.Decimal `json:"rate_per_hour"`

	TotalAmount     decimal.Decimal `json:"total_amount"`
	ServiceFee      decimal.Decimal `json:"service_fee"`
	CaregiverAmount decimal.Decimal `json:"caregiver_amount"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	CheckoutSessionID string `json:"checkout_session_id,omitempty"`
	PaymentIntentID   string `json:"payment_intent_id,omitempty"`
	TransferID        string `json:"transfer_id,omitempty"`

	PersonalDetailsVisible bool `json:"personal_details_visible"`

	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

// Clone returns a copy that shares no pointers with b.
func (b Booking) Clone() Booking {
	out := b
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		out.CompletedAt = &t
	}
	if b.ReleasedAt != nil {
		t := *b.ReleasedAt
		out.ReleasedAt = &t
	}
	return out
}

// AmountMinorUnits is the total in cents, as payment providers expect.
func (b Booking) AmountMinorUnits() int64 {
	return ToMinorUnits(b.TotalAmount)
}

// ReleaseDueAt is the earliest instant funds may be released.
func (b Booking) ReleaseDueAt(holdback time.Duration) time.Time {
	return b.EndDate.Add(holdback)
}
