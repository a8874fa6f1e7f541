package interfaces

import "context"

// CheckoutRequest describes a hosted checkout for one booking.
// AmountMinor is the booking total in cents.
type CheckoutRequest struct {
	BookingID   string
	AmountMinor int64
	Title       string
	PayerRef    string
}

// CheckoutSession is what the provider hands back for a checkout.
type CheckoutSession struct {
	ID          string
	RedirectURL string
}

// ProviderPayment is the provider's view of a captured payment.
type ProviderPayment struct {
	ID        string
	Status    string
	BookingID string
}

// Approved reports whether the provider considers the funds captured.
func (p ProviderPayment) Approved() bool {
	return p.Status == "approved"
}

// IPaymentGateway abstracts the external checkout provider (Mercado Pago).
//
// CreateCheckoutSession is a blocking network call; callers must not hold
// booking locks while it runs.
type IPaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	GetPayment(ctx context.Context, providerPaymentID string) (ProviderPayment, error)
}

// IWebhookVerifier checks the authenticity of a provider notification.
// It has no side effects.
type IWebhookVerifier interface {
	Verify(signature, requestID, dataID string) error
}
