package response

import (
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase"
	"careconnect/internal/usecase/interfaces"
)

const dateLayout = "2006-01-02"

// BookingResponse renders money as fixed two-decimal strings.
type BookingResponse struct {
	ID                     string     `json:"id"`
	FamilyID               string     `json:"family_id"`
	CaregiverID            string     `json:"caregiver_id"`
	JobID                  string     `json:"job_id,omitempty"`
	StartDate              string     `json:"start_date"`
	EndDate                string     `json:"end_date"`
	HoursPerDay            int        `json:"hours_per_day"`
	RatePerHour            string     `json:"rate_per_hour"`
	TotalAmount            string     `json:"total_amount"`
	ServiceFee             string     `json:"service_fee"`
	CaregiverAmount        string     `json:"caregiver_amount"`
	Status                 string     `json:"status"`
	PaymentStatus          string     `json:"payment_status"`
	PersonalDetailsVisible bool       `json:"personal_details_visible"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	ReleasedAt             *time.Time `json:"released_at,omitempty"`
}

func FromBooking(b entities.Booking) BookingResponse {
	return BookingResponse{
		ID:                     b.ID,
		FamilyID:               b.FamilyID,
		CaregiverID:            b.CaregiverID,
		JobID:                  b.JobID,
		StartDate:              b.StartDate.UTC().Format(dateLayout),
		EndDate:                b.EndDate.UTC().Format(dateLayout),
		HoursPerDay:            b.HoursPerDay,
		RatePerHour:            b.RatePerHour.StringFixed(2),
		TotalAmount:            b.TotalAmount.StringFixed(2),
		ServiceFee:             b.ServiceFee.StringFixed(2),
		CaregiverAmount:        b.CaregiverAmount.StringFixed(2),
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		PersonalDetailsVisible: b.PersonalDetailsVisible,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
		CompletedAt:            b.CompletedAt,
		ReleasedAt:             b.ReleasedAt,
	}
}

func FromBookings(bs []entities.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBooking(b))
	}
	return out
}

type CheckoutResponse struct {
	BookingID     string `json:"booking_id"`
	SessionID     string `json:"session_id"`
	RedirectURL   string `json:"redirect_url"`
	PaymentStatus string `json:"payment_status"`
}

func FromCheckout(b entities.Booking, s interfaces.CheckoutSession) CheckoutResponse {
	return CheckoutResponse{
		BookingID:     b.ID,
		SessionID:     s.ID,
		RedirectURL:   s.RedirectURL,
		PaymentStatus: string(b.PaymentStatus),
	}
}

type QuoteResponse struct {
	Days            int    `json:"days"`
	TotalAmount     string `json:"total_amount"`
	ServiceFee      string `json:"service_fee"`
	CaregiverAmount string `json:"caregiver_amount"`
	PlatformFeeRate string `json:"platform_fee_rate"`
}

func FromFees(f entities.Fees) QuoteResponse {
	return QuoteResponse{
		Days:            f.Days,
		TotalAmount:     f.TotalAmount.StringFixed(2),
		ServiceFee:      f.ServiceFee.StringFixed(2),
		CaregiverAmount: f.CaregiverAmount.StringFixed(2),
		PlatformFeeRate: entities.PlatformFeeRate.StringFixed(2),
	}
}

type ReleaseSummaryResponse struct {
	Candidates int `json:"candidates"`
	Released   int `json:"released"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

func FromReleaseSummary(s usecase.ReleaseSummary) ReleaseSummaryResponse {
	return ReleaseSummaryResponse(s)
}

type WebhookAckResponse struct {
	Status string `json:"status"`
}
