package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"careconnect/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var (
	ErrMissingMercadoPagoAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
	ErrInvalidProviderPaymentID        = errors.New("invalid provider payment id")
)

const mockPaymentPrefix = "mock-"

// MercadoPagoOptions configures Checkout Pro preferences.
type MercadoPagoOptions struct {
	AccessToken     string
	Currency        string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	NotificationURL string
	Mock            bool
}

// MercadoPagoGateway opens Checkout Pro preferences for bookings and looks up
// the payments Mercado Pago notifies us about.
type MercadoPagoGateway struct {
	preferences preference.Client
	payments    payment.Client
	opts        MercadoPagoOptions
	sandbox     bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(opts MercadoPagoOptions) (*MercadoPagoGateway, error) {
	if opts.Currency == "" {
		opts.Currency = "BRL"
	}
	if opts.Mock {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{opts: opts}, nil
	}

	token := strings.TrimSpace(opts.AccessToken)
	if token == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(token)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	sandbox := strings.HasPrefix(token, "TEST-")
	log.Printf("[payment][gateway] Mercado Pago client initialized sandbox=%t currency=%s", sandbox, opts.Currency)

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
		opts:        opts,
		sandbox:     sandbox,
	}, nil
}

func (g *MercadoPagoGateway) CreateCheckoutSession(ctx context.Context, req interfaces.CheckoutRequest) (interfaces.CheckoutSession, error) {
	if g != nil && g.opts.Mock {
		id := fmt.Sprintf("mock-pref-%d", time.Now().UTC().UnixNano())
		log.Printf("[payment][gateway] mock checkout booking_id=%s session_id=%s amount_minor=%d", req.BookingID, id, req.AmountMinor)
		return interfaces.CheckoutSession{ID: id, RedirectURL: g.opts.SuccessURL}, nil
	}
	if g == nil || g.preferences == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.CheckoutSession{}, ErrMercadoPagoGatewayNotConfigured
	}

	log.Printf("[payment][gateway] create preference start booking_id=%s amount_minor=%d", req.BookingID, req.AmountMinor)
	resp, err := g.preferences.Create(ctx, buildPreferenceRequest(req, g.opts))
	if err != nil {
		log.Printf("[payment][gateway] sdk create preference failed booking_id=%s err=%v", req.BookingID, err)
		return interfaces.CheckoutSession{}, fmt.Errorf("create preference: %w", err)
	}

	redirect := resp.InitPoint
	if g.sandbox && resp.SandboxInitPoint != "" {
		redirect = resp.SandboxInitPoint
	}
	log.Printf("[payment][gateway] create preference success booking_id=%s preference_id=%s", req.BookingID, resp.ID)
	return interfaces.CheckoutSession{ID: resp.ID, RedirectURL: redirect}, nil
}

func (g *MercadoPagoGateway) GetPayment(ctx context.Context, providerPaymentID string) (interfaces.ProviderPayment, error) {
	providerPaymentID = strings.TrimSpace(providerPaymentID)
	if g != nil && g.opts.Mock {
		return mockPayment(providerPaymentID)
	}
	if g == nil || g.payments == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.ProviderPayment{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(providerPaymentID)
	if err != nil {
		return interfaces.ProviderPayment{}, fmt.Errorf("%w: %q", ErrInvalidProviderPaymentID, providerPaymentID)
	}

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		log.Printf("[payment][gateway] sdk get payment failed payment_id=%d err=%v", id, err)
		return interfaces.ProviderPayment{}, fmt.Errorf("get payment: %w", err)
	}
	p := interfaces.ProviderPayment{
		ID:        strconv.Itoa(resp.ID),
		Status:    resp.Status,
		BookingID: bookingIDFromPayment(resp.ExternalReference, resp.Metadata),
	}
	log.Printf("[payment][gateway] get payment success payment_id=%s status=%s booking_id=%s", p.ID, p.Status, p.BookingID)
	return p, nil
}

func buildPreferenceRequest(req interfaces.CheckoutRequest, opts MercadoPagoOptions) preference.Request {
	title := req.Title
	if title == "" {
		title = "Booking " + req.BookingID
	}
	r := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         req.BookingID,
				Title:      title,
				Quantity:   1,
				UnitPrice:  float64(req.AmountMinor) / 100,
				CurrencyID: opts.Currency,
			},
		},
		ExternalReference: req.BookingID,
		Metadata: map[string]any{
			"booking_id": req.BookingID,
			"payer_ref":  req.PayerRef,
		},
		NotificationURL: opts.NotificationURL,
	}
	if opts.SuccessURL != "" || opts.FailureURL != "" || opts.PendingURL != "" {
		r.BackURLs = &preference.BackURLsRequest{
			Success: opts.SuccessURL,
			Failure: opts.FailureURL,
			Pending: opts.PendingURL,
		}
	}
	if opts.SuccessURL != "" {
		r.AutoReturn = "approved"
	}
	return r
}

// bookingIDFromPayment prefers external_reference and falls back to metadata.
func bookingIDFromPayment(externalReference string, metadata map[string]any) string {
	if ref := strings.TrimSpace(externalReference); ref != "" {
		return ref
	}
	if v, ok := metadata["booking_id"]; ok && v != nil {
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	return ""
}

func mockPayment(providerPaymentID string) (interfaces.ProviderPayment, error) {
	if !strings.HasPrefix(providerPaymentID, mockPaymentPrefix) {
		return interfaces.ProviderPayment{}, fmt.Errorf("%w: %q", ErrInvalidProviderPaymentID, providerPaymentID)
	}
	bookingID := strings.TrimPrefix(providerPaymentID, mockPaymentPrefix)
	log.Printf("[payment][gateway] mock payment approved payment_id=%s booking_id=%s", providerPaymentID, bookingID)
	return interfaces.ProviderPayment{ID: providerPaymentID, Status: "approved", BookingID: bookingID}, nil
}
