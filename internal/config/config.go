package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// App holds every setting the service reads from the environment.
// A .env file is honoured through godotenv/autoload in main.
type App struct {
	// HTTP
	Port               string `envconfig:"PORT" default:"8080"`
	GinMode            string `envconfig:"GIN_MODE" default:"debug"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Storage
	BookingStore     string `envconfig:"BOOKING_STORE" default:"dynamodb"`
	BookingsTable    string `envconfig:"BOOKINGS_TABLE" default:"bookings"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKeyID   string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
	AWSSecretKey     string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
	DBURL            string `envconfig:"DB_URL"`

	// Identity
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Payments
	MercadoPagoAccessToken   string `envconfig:"MERCADOPAGO_ACCESS_TOKEN"`
	MercadoPagoWebhookSecret string `envconfig:"MERCADOPAGO_WEBHOOK_SECRET"`
	CheckoutCurrency         string `envconfig:"CHECKOUT_CURRENCY" default:"BRL"`
	CheckoutSuccessURL       string `envconfig:"CHECKOUT_SUCCESS_URL"`
	CheckoutFailureURL       string `envconfig:"CHECKOUT_FAILURE_URL"`
	CheckoutPendingURL       string `envconfig:"CHECKOUT_PENDING_URL"`
	PaymentNotificationURL   string `envconfig:"PAYMENT_NOTIFICATION_URL"`
	PaymentGatewayMock       bool   `envconfig:"PAYMENT_GATEWAY_MOCK" default:"false"`

	// Messaging / cache
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.events"`
	RedisAddr       string `envconfig:"REDIS_ADDR"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
	RedisDB         int    `envconfig:"REDIS_DB" default:"0"`

	// Release scheduler
	ReleaseInterval         time.Duration `envconfig:"RELEASE_INTERVAL" default:"1h"`
	ReleaseHoldback         time.Duration `envconfig:"RELEASE_HOLDBACK" default:"24h"`
	ReleaseSchedulerEnabled bool          `envconfig:"RELEASE_SCHEDULER_ENABLED" default:"true"`
}

func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	c.BookingStore = strings.ToLower(strings.TrimSpace(c.BookingStore))
	return c, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c App) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SandboxPayments reports whether the Mercado Pago token is a test credential.
func (c App) SandboxPayments() bool {
	return strings.HasPrefix(strings.TrimSpace(c.MercadoPagoAccessToken), "TEST-")
}
