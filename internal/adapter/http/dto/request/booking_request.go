package request

import (
	"errors"
	"strings"
	"time"

	"careconnect/internal/usecase"

	"github.com/shopspring/decimal"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

const dateLayout = "2006-01-02"

// CreateBookingRequest is the family's booking payload.
//
// family_id is optional; when sent it must match the authenticated caller.
type CreateBookingRequest struct {
	FamilyID    string          `json:"family_id"`
	CaregiverID string          `json:"caregiver_id" binding:"required"`
	JobID       string          `json:"job_id"`
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     string          `json:"end_date" binding:"required"`
	HoursPerDay int             `json:"hours_per_day"`
	RatePerHour decimal.Decimal `json:"rate_per_hour"`
}

func (r CreateBookingRequest) ToInput() (usecase.CreateBookingInput, error) {
	start, end, err := parseRange(r.StartDate, r.EndDate)
	if err != nil {
		return usecase.CreateBookingInput{}, err
	}
	return usecase.CreateBookingInput{
		FamilyID:    strings.TrimSpace(r.FamilyID),
		CaregiverID: strings.TrimSpace(r.CaregiverID),
		JobID:       strings.TrimSpace(r.JobID),
		StartDate:   start,
		EndDate:     end,
		HoursPerDay: r.HoursPerDay,
		RatePerHour: r.RatePerHour,
	}, nil
}

// QuoteRequest prices a prospective booking.
type QuoteRequest struct {
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     string          `json:"end_date" binding:"required"`
	HoursPerDay int             `json:"hours_per_day"`
	RatePerHour decimal.Decimal `json:"rate_per_hour"`
}

func (r QuoteRequest) ToInput() (usecase.QuoteInput, error) {
	start, end, err := parseRange(r.StartDate, r.EndDate)
	if err != nil {
		return usecase.QuoteInput{}, err
	}
	return usecase.QuoteInput{
		StartDate:   start,
		EndDate:     end,
		HoursPerDay: r.HoursPerDay,
		RatePerHour: r.RatePerHour,
	}, nil
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// UTC midnight of that calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
