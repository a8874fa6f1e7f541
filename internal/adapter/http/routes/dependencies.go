package routes

import (
	"context"
	"fmt"
	"log"

	"careconnect/internal/adapter/persistence/repository"
	"careconnect/internal/config"
	"careconnect/internal/infrastructure/cache"
	"careconnect/internal/infrastructure/database"
	"careconnect/internal/infrastructure/messaging"
	"careconnect/internal/infrastructure/payments"
	"careconnect/internal/jobs"
	"careconnect/internal/usecase"
	"careconnect/internal/usecase/interfaces"
)

// dependencies is the object graph behind the router.
type dependencies struct {
	bookings   *usecase.BookingUseCase
	quotes     *usecase.QuoteUseCase
	webhooks   *usecase.PaymentWebhookUseCase
	releaseJob *jobs.ReleaseJob
	closers    []func() error
}

func buildDependencies(ctx context.Context, cfg config.App) (*dependencies, error) {
	deps := &dependencies{}

	repo, err := newBookingRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gateway := newPaymentGateway(cfg)
	notifier := deps.newNotifier(cfg)
	processed := deps.newProcessedEventStore(cfg)

	deps.bookings = usecase.NewBookingUseCase(repo, gateway, notifier, cfg.ReleaseHoldback)
	deps.quotes = usecase.NewQuoteUseCase()
	deps.webhooks = usecase.NewPaymentWebhookUseCase(newWebhookVerifier(cfg), gateway, processed, deps.bookings)

	if cfg.ReleaseSchedulerEnabled {
		deps.releaseJob = jobs.NewReleaseJob(deps.bookings, cfg.ReleaseInterval)
	} else {
		log.Printf("[booking][release] scheduler disabled; use POST /v1/admin/release-payments")
	}
	return deps, nil
}

func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Printf("[app] close failed err=%v", err)
		}
	}
}

func newBookingRepository(ctx context.Context, cfg config.App) (interfaces.IBookingRepository, error) {
	switch cfg.BookingStore {
	case config.StoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewBookingDynamoRepository(ddb, cfg.BookingsTable), nil
	case config.StorePostgres:
		db, err := database.ConnectPostgres(cfg.DBURL)
		if err != nil {
			return nil, err
		}
		repo := repository.NewBookingGormRepository(db)
		if err := repo.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate bookings: %w", err)
		}
		return repo, nil
	case config.StoreMemory:
		log.Printf("[booking][repository] using in-memory store; data is lost on restart")
		return repository.NewBookingMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown BOOKING_STORE %q", cfg.BookingStore)
	}
}

// newPaymentGateway returns nil when Mercado Pago is not configured; checkout
// then fails with PAYMENT_GATEWAY_UNAVAILABLE instead of the service refusing to start.
func newPaymentGateway(cfg config.App) interfaces.IPaymentGateway {
	gw, err := payments.NewMercadoPagoGateway(payments.MercadoPagoOptions{
		AccessToken:     cfg.MercadoPagoAccessToken,
		Currency:        cfg.CheckoutCurrency,
		SuccessURL:      cfg.CheckoutSuccessURL,
		FailureURL:      cfg.CheckoutFailureURL,
		PendingURL:      cfg.CheckoutPendingURL,
		NotificationURL: cfg.PaymentNotificationURL,
		Mock:            cfg.PaymentGatewayMock,
	})
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
		return nil
	}
	log.Printf("[payment][gateway] configured sandbox=%t mock=%t", cfg.SandboxPayments(), cfg.PaymentGatewayMock)
	return gw
}

func newWebhookVerifier(cfg config.App) interfaces.IWebhookVerifier {
	if cfg.MercadoPagoWebhookSecret == "" {
		log.Printf("[payment][webhook] MERCADOPAGO_WEBHOOK_SECRET not set; every notification will be rejected")
	}
	return payments.NewWebhookSignatureVerifier(cfg.MercadoPagoWebhookSecret)
}

func (d *dependencies) newNotifier(cfg config.App) interfaces.INotificationDispatcher {
	if cfg.RabbitURL == "" {
		return messaging.LogNotifier{}
	}
	n, err := messaging.NewRabbitMQNotifier(cfg.RabbitURL, cfg.BookingExchange)
	if err != nil {
		log.Printf("[booking][notify] rabbitmq unavailable, falling back to log err=%v", err)
		return messaging.LogNotifier{}
	}
	d.closers = append(d.closers, n.Close)
	return n
}

// newProcessedEventStore returns nil without Redis; webhook redelivery is
// then absorbed by the booking state machine alone.
func (d *dependencies) newProcessedEventStore(cfg config.App) interfaces.IProcessedEventStore {
	client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if client == nil {
		return nil
	}
	d.closers = append(d.closers, client.Close)
	return cache.NewRedisProcessedEventStore(client)
}
