package repository

import (
	"testing"
	"time"
)

func TestBookingRecordMapping(t *testing.T) {
	in := sampleBooking()
	in.StartDate = in.StartDate.In(time.FixedZone("BRT", -3*3600))

	rec := toBookingRecord(in)
	if rec.StartDate.Location() != time.UTC {
		t.Fatalf("expected UTC start date, got %v", rec.StartDate.Location())
	}
	if rec.Status != "completed" || rec.PaymentStatus != "paid_unreleased" || rec.Version != 5 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	out := fromBookingRecord(rec)
	if !out.StartDate.Equal(in.StartDate) || !out.TotalAmount.Equal(in.TotalAmount) {
		t.Fatalf("unexpected booking: %+v", out)
	}
	if out.CompletedAt == nil || !out.CompletedAt.Equal(*in.CompletedAt) || out.ReleasedAt != nil {
		t.Fatalf("unexpected timestamps: completed=%v released=%v", out.CompletedAt, out.ReleasedAt)
	}
	if (bookingRecord{}).TableName() != "bookings" {
		t.Fatal("unexpected table name")
	}
}
