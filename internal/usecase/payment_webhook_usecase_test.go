package usecase

import (
	"context"
	"errors"
	"testing"

	"careconnect/internal/adapter/persistence/repository"
	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"
	mock_interfaces "careconnect/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type webhookFixture struct {
	uc        *PaymentWebhookUseCase
	bookings  *BookingUseCase
	repo      *repository.BookingMemoryRepository
	verifier  *mock_interfaces.MockIWebhookVerifier
	gateway   *mock_interfaces.MockIPaymentGateway
	processed *mock_interfaces.MockIProcessedEventStore
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &webhookFixture{
		repo:      repository.NewBookingMemoryRepository(),
		verifier:  mock_interfaces.NewMockIWebhookVerifier(ctrl),
		gateway:   mock_interfaces.NewMockIPaymentGateway(ctrl),
		processed: mock_interfaces.NewMockIProcessedEventStore(ctrl),
	}
	f.bookings, _ = newTestBookingUseCase(f.repo, f.gateway, nil)
	f.uc = NewPaymentWebhookUseCase(f.verifier, f.gateway, f.processed, f.bookings)
	return f
}

// awaitingPayment returns a booking whose checkout is open.
func (f *webhookFixture) awaitingPayment(t *testing.T) entities.Booking {
	t.Helper()
	b := createConfirmed(t, f.bookings)
	expectSession(f.gateway, "pref-1")
	b, _, err := f.bookings.InitiateCheckout(context.Background(), familyCaller, b.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return b
}

func paymentDelivery(dataID string) WebhookDelivery {
	return WebhookDelivery{
		Signature: "ts=1704908010,v1=abc",
		RequestID: "req-1",
		DataID:    dataID,
		Topic:     "payment",
		Body:      []byte(`{"action":"payment.updated","type":"payment","data":{"id":"` + dataID + `"}}`),
	}
}

func TestPaymentWebhookUseCase_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid signature changes nothing", func(t *testing.T) {
		f := newWebhookFixture(t)
		b := f.awaitingPayment(t)
		f.verifier.EXPECT().Verify("ts=1704908010,v1=abc", "req-1", "123").Return(errors.New("mismatch"))

		_, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
		stored, _ := f.repo.GetByID(ctx, b.ID)
		if stored.PaymentStatus != entities.PaymentStatusPaymentInitiated || stored.Version != b.Version {
			t.Fatalf("unexpected stored booking: %+v", stored)
		}
	})

	t.Run("missing verifier fails closed", func(t *testing.T) {
		uc := NewPaymentWebhookUseCase(nil, nil, nil, nil)
		if _, err := uc.Handle(ctx, paymentDelivery("123")); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("data id falls back to the body", func(t *testing.T) {
		f := newWebhookFixture(t)
		d := paymentDelivery("456")
		d.DataID = ""
		d.Body = []byte(`{"type":"payment","data":{"id":456}}`)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "456").Return(errors.New("mismatch"))

		if _, err := f.uc.Handle(ctx, d); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("unparseable body is acknowledged", func(t *testing.T) {
		f := newWebhookFixture(t)
		d := paymentDelivery("123")
		d.Body = []byte("{not json")
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "123").Return(nil)

		out, err := f.uc.Handle(ctx, d)
		if err != nil || out != WebhookIgnored {
			t.Fatalf("expected ignored, got %s err=%v", out, err)
		}
	})

	t.Run("non payment topic is ignored", func(t *testing.T) {
		f := newWebhookFixture(t)
		d := paymentDelivery("123")
		d.Topic = "merchant_order"
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		out, err := f.uc.Handle(ctx, d)
		if err != nil || out != WebhookIgnored {
			t.Fatalf("expected ignored, got %s err=%v", out, err)
		}
	})

	t.Run("already processed notification skips provider", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(true, nil)

		out, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookIgnored {
			t.Fatalf("expected ignored, got %s err=%v", out, err)
		}
	})

	t.Run("provider lookup failure is retryable", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, nil)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "123").Return(interfaces.ProviderPayment{}, errors.New("503"))

		if _, err := f.uc.Handle(ctx, paymentDelivery("123")); !errors.Is(err, ErrGatewayError) {
			t.Fatalf("expected ErrGatewayError, got %v", err)
		}
	})

	t.Run("not approved is ignored", func(t *testing.T) {
		f := newWebhookFixture(t)
		b := f.awaitingPayment(t)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, nil)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "123").Return(interfaces.ProviderPayment{ID: "123", Status: "pending", BookingID: b.ID}, nil)

		out, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookIgnored {
			t.Fatalf("expected ignored, got %s err=%v", out, err)
		}
		stored, _ := f.repo.GetByID(ctx, b.ID)
		if stored.PaymentStatus != entities.PaymentStatusPaymentInitiated {
			t.Fatalf("unexpected payment status: %s", stored.PaymentStatus)
		}
	})

	t.Run("approved payment confirms booking once", func(t *testing.T) {
		f := newWebhookFixture(t)
		b := f.awaitingPayment(t)
		approved := interfaces.ProviderPayment{ID: "123", Status: "approved", BookingID: b.ID}

		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, nil).Times(2)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "123").Return(approved, nil).Times(2)
		f.processed.EXPECT().MarkProcessed(gomock.Any(), "payment:123", processedEventTTL).Return(nil).Times(2)

		out, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookProcessed {
			t.Fatalf("expected processed, got %s err=%v", out, err)
		}
		stored, _ := f.repo.GetByID(ctx, b.ID)
		if stored.PaymentStatus != entities.PaymentStatusPaidUnreleased || stored.PaymentIntentID != "123" {
			t.Fatalf("unexpected stored booking: %+v", stored)
		}

		// Redelivery with a cold dedupe store still cannot double-confirm.
		out, err = f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookIgnored {
			t.Fatalf("expected ignored on redelivery, got %s err=%v", out, err)
		}
		again, _ := f.repo.GetByID(ctx, b.ID)
		if again.Version != stored.Version {
			t.Fatalf("redelivery wrote the booking: v%d -> v%d", stored.Version, again.Version)
		}
	})

	t.Run("unknown booking is acknowledged", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, nil)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "123").Return(interfaces.ProviderPayment{ID: "123", Status: "approved", BookingID: "gone"}, nil)
		f.processed.EXPECT().MarkProcessed(gomock.Any(), "payment:123", gomock.Any()).Return(nil)

		out, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookIgnored {
			t.Fatalf("expected ignored, got %s err=%v", out, err)
		}
	})

	t.Run("gateway not configured leaves notification for redelivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		verifier := mock_interfaces.NewMockIWebhookVerifier(ctrl)
		processed := mock_interfaces.NewMockIProcessedEventStore(ctrl)
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "123").Return(nil)
		processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, nil)
		processed.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		uc := NewPaymentWebhookUseCase(verifier, nil, processed, nil)

		if _, err := uc.Handle(ctx, paymentDelivery("123")); !errors.Is(err, ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
		}
	})

	t.Run("payment arriving after completion is still recorded", func(t *testing.T) {
		f := newWebhookFixture(t)
		b := f.awaitingPayment(t)
		if _, err := f.bookings.Complete(ctx, familyCaller, b.ID); err != nil {
			t.Fatalf("complete: %v", err)
		}
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, nil)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "123").Return(interfaces.ProviderPayment{ID: "123", Status: "approved", BookingID: b.ID}, nil)
		f.processed.EXPECT().MarkProcessed(gomock.Any(), "payment:123", gomock.Any()).Return(nil)

		out, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookProcessed {
			t.Fatalf("expected processed, got %s err=%v", out, err)
		}
		stored, _ := f.repo.GetByID(ctx, b.ID)
		if stored.Status != entities.BookingStatusCompleted || stored.PaymentStatus != entities.PaymentStatusPaidUnreleased {
			t.Fatalf("unexpected stored booking: %+v", stored)
		}
	})

	t.Run("dedupe store outage does not block confirmation", func(t *testing.T) {
		f := newWebhookFixture(t)
		b := f.awaitingPayment(t)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.processed.EXPECT().Seen(gomock.Any(), "payment:123").Return(false, errors.New("redis down"))
		f.gateway.EXPECT().GetPayment(gomock.Any(), "123").Return(interfaces.ProviderPayment{ID: "123", Status: "approved", BookingID: b.ID}, nil)
		f.processed.EXPECT().MarkProcessed(gomock.Any(), "payment:123", gomock.Any()).Return(errors.New("redis down"))

		out, err := f.uc.Handle(ctx, paymentDelivery("123"))
		if err != nil || out != WebhookProcessed {
			t.Fatalf("expected processed, got %s err=%v", out, err)
		}
	})
}

func TestRawID(t *testing.T) {
	cases := map[string]string{
		`"123"`: "123",
		`123`:   "123",
		`null`:  "",
		``:      "",
	}
	for in, want := range cases {
		if got := rawID([]byte(in)); got != want {
			t.Fatalf("rawID(%q): expected %q, got %q", in, want, got)
		}
	}
}
