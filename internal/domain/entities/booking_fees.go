package entities

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PlatformFeeRate is the share of every booking kept by the platform.
// It is fixed; bookings cannot negotiate it.
var PlatformFeeRate = decimal.New(10, -2)

const (
	// MaxHoursPerDay caps a single day of care.
	MaxHoursPerDay = 24
	dayLength      = 24 * time.Hour
)

// MaxRatePerHour caps the hourly rate a booking may carry.
var MaxRatePerHour = decimal.NewFromInt(10_000)

// maxMinorUnits is the largest total, in cents, a provider request can carry.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Fees is the financial breakdown of a booking.
//
// Invariant: TotalAmount == ServiceFee + CaregiverAmount, to the cent.
type Fees struct {
	Days            int             `json:"days"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ServiceFee      decimal.Decimal `json:"service_fee"`
	CaregiverAmount decimal.Decimal `json:"caregiver_amount"`
}

// CalculateFees prices a booking.
//
//   - days  = ceil((end - start) / 24h); a same-day range yields 0 days
//   - total = round(rate * hoursPerDay * days, 2)
//   - fee   = round(total * PlatformFeeRate, 2)
//   - net   = total - fee (never rounded on its own)
//
// The rate is rounded to cents first, so the stored rate and the totals agree.
func CalculateFees(ratePerHour decimal.Decimal, hoursPerDay int, start, end time.Time) (Fees, error) {
	ratePerHour = ratePerHour.Round(2)
	if !ratePerHour.IsPositive() {
		return Fees{}, fmt.Errorf("%w: rate_per_hour must be positive", ErrInvalidInput)
	}
	if ratePerHour.GreaterThan(MaxRatePerHour) {
		return Fees{}, fmt.Errorf("%w: rate_per_hour above %s", ErrInvalidInput, MaxRatePerHour)
	}
	if hoursPerDay <= 0 || hoursPerDay > MaxHoursPerDay {
		return Fees{}, fmt.Errorf("%w: hours_per_day must be between 1 and %d", ErrInvalidInput, MaxHoursPerDay)
	}
	if end.Before(start) {
		return Fees{}, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}

	days := DayCount(start, end)
	total := ratePerHour.
		Mul(decimal.NewFromInt(int64(hoursPerDay))).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2)
	if !fitsMinorUnits(total) {
		return Fees{}, fmt.Errorf("%w: total amount too large", ErrInvalidInput)
	}
	fee := total.Mul(PlatformFeeRate).Round(2)

	return Fees{
		Days:            days,
		TotalAmount:     total,
		ServiceFee:      fee,
		CaregiverAmount: total.Sub(fee),
	}, nil
}

// DayCount is the ceiling of the calendar-day difference between start and end.
func DayCount(start, end time.Time) int {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	days := int(diff / dayLength)
	if diff%dayLength != 0 {
		days++
	}
	return days
}

// fitsMinorUnits reports whether amount, in cents, fits an int64.
func fitsMinorUnits(amount decimal.Decimal) bool {
	return !amount.Round(2).Shift(2).GreaterThan(maxMinorUnits)
}

// ToMinorUnits converts a currency amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}
