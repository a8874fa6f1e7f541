package usecase

import (
	"context"
	"time"

	"careconnect/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// QuoteInput is a prospective booking the family wants priced.
type QuoteInput struct {
	StartDate   time.Time
	EndDate     time.Time
	HoursPerDay int
	RatePerHour decimal.Decimal
}

// IQuoteUseCase prices a booking without persisting anything.
type IQuoteUseCase interface {
	Quote(ctx context.Context, in QuoteInput) (entities.Fees, error)
}

type QuoteUseCase struct{}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase() *QuoteUseCase {
	return &QuoteUseCase{}
}

func (u *QuoteUseCase) Quote(_ context.Context, in QuoteInput) (entities.Fees, error) {
	return entities.CalculateFees(in.RatePerHour, in.HoursPerDay, in.StartDate, in.EndDate)
}
