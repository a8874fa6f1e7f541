package repository

import (
	"context"
	"errors"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// bookingRecord is the Postgres row for a booking.
type bookingRecord struct {
	ID                     string          `gorm:"primaryKey;type:varchar(64)"`
	FamilyID               string          `gorm:"index;type:varchar(64);not null"`
	CaregiverID            string          `gorm:"index;type:varchar(64);not null"`
	JobID                  string          `gorm:"type:varchar(64)"`
	StartDate              time.Time       `gorm:"not null"`
	EndDate                time.Time       `gorm:"index:idx_bookings_release,priority:2;not null"`
	HoursPerDay            int             `gorm:"not null"`
	RatePerHour            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalAmount            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ServiceFee             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CaregiverAmount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status                 string          `gorm:"type:varchar(20);not null"`
	PaymentStatus          string          `gorm:"index:idx_bookings_release,priority:1;type:varchar(20);not null"`
	CheckoutSessionID      string          `gorm:"type:varchar(128)"`
	PaymentIntentID        string          `gorm:"type:varchar(128)"`
	TransferID             string          `gorm:"type:varchar(128)"`
	PersonalDetailsVisible bool            `gorm:"not null;default:false"`
	Version                int64           `gorm:"not null"`
	CreatedAt              time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime:false"`
	CompletedAt            *time.Time
	ReleasedAt             *time.Time
}

func (bookingRecord) TableName() string { return "bookings" }

// BookingGormRepository persists bookings in Postgres through gorm.
// Update is guarded by "WHERE id = ? AND version = ?".
type BookingGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IBookingRepository = (*BookingGormRepository)(nil)

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) Migrate() error {
	return r.db.AutoMigrate(&bookingRecord{})
}

func (r *BookingGormRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	rec := toBookingRecord(b)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingGormRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	var rec bookingRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Booking{}, nil
	}
	if err != nil {
		return entities.Booking{}, err
	}
	return fromBookingRecord(rec), nil
}

func (r *BookingGormRepository) Update(ctx context.Context, b entities.Booking, expectedVersion int64) error {
	rec := toBookingRecord(b)
	res := r.db.WithContext(ctx).
		Model(&bookingRecord{}).
		Where("id = ? AND version = ?", b.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return interfaces.ErrVersionConflict
	}
	return nil
}

func (r *BookingGormRepository) ListByParty(ctx context.Context, caller entities.Caller) ([]entities.Booking, error) {
	column := "family_id"
	if caller.Role == entities.RoleCaregiver {
		column = "caregiver_id"
	}
	var recs []bookingRecord
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", caller.ID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return fromBookingRecords(recs), nil
}

func (r *BookingGormRepository) ListReleasable(ctx context.Context, endDateCutoff time.Time) ([]entities.Booking, error) {
	var recs []bookingRecord
	if err := r.db.WithContext(ctx).
		Where("payment_status = ? AND end_date <= ?", string(entities.PaymentStatusPaidUnreleased), endDateCutoff.UTC()).
		Order("end_date ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return fromBookingRecords(recs), nil
}

func toBookingRecord(b entities.Booking) bookingRecord {
	return bookingRecord{
		ID:                     b.ID,
		FamilyID:               b.FamilyID,
		CaregiverID:            b.CaregiverID,
		JobID:                  b.JobID,
		StartDate:              b.StartDate.UTC(),
		EndDate:                b.EndDate.UTC(),
		HoursPerDay:            b.HoursPerDay,
		RatePerHour:            b.RatePerHour,
		TotalAmount:            b.TotalAmount,
		ServiceFee:             b.ServiceFee,
		CaregiverAmount:        b.CaregiverAmount,
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		CheckoutSessionID:      b.CheckoutSessionID,
		PaymentIntentID:        b.PaymentIntentID,
		TransferID:             b.TransferID,
		PersonalDetailsVisible: b.PersonalDetailsVisible,
		Version:                b.Version,
		CreatedAt:              b.CreatedAt.UTC(),
		UpdatedAt:              b.UpdatedAt.UTC(),
		CompletedAt:            b.CompletedAt,
		ReleasedAt:             b.ReleasedAt,
	}
}

func fromBookingRecord(rec bookingRecord) entities.Booking {
	return entities.Booking{
		ID:                     rec.ID,
		FamilyID:               rec.FamilyID,
		CaregiverID:            rec.CaregiverID,
		JobID:                  rec.JobID,
		StartDate:              rec.StartDate.UTC(),
		EndDate:                rec.EndDate.UTC(),
		HoursPerDay:            rec.HoursPerDay,
		RatePerHour:            rec.RatePerHour,
		TotalAmount:            rec.TotalAmount,
		ServiceFee:             rec.ServiceFee,
		CaregiverAmount:        rec.CaregiverAmount,
		Status:                 entities.BookingStatus(rec.Status),
		PaymentStatus:          entities.PaymentStatus(rec.PaymentStatus),
		CheckoutSessionID:      rec.CheckoutSessionID,
		PaymentIntentID:        rec.PaymentIntentID,
		TransferID:             rec.TransferID,
		PersonalDetailsVisible: rec.PersonalDetailsVisible,
		Version:                rec.Version,
		CreatedAt:              rec.CreatedAt.UTC(),
		UpdatedAt:              rec.UpdatedAt.UTC(),
		CompletedAt:            rec.CompletedAt,
		ReleasedAt:             rec.ReleasedAt,
	}
}

func fromBookingRecords(recs []bookingRecord) []entities.Booking {
	out := make([]entities.Booking, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromBookingRecord(rec))
	}
	return out
}
