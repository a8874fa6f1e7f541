package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase/interfaces"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

const processedEventTTL = 7 * 24 * time.Hour

// WebhookOutcome tells the provider whether the delivery changed anything.
// Both outcomes are acknowledged with 200 so the provider stops retrying.
type WebhookOutcome string

const (
	WebhookProcessed WebhookOutcome = "processed"
	WebhookIgnored   WebhookOutcome = "ignored"
)

// WebhookDelivery is one raw notification from the payment provider.
// DataID and Topic come from the query string when present.
type WebhookDelivery struct {
	Signature string
	RequestID string
	DataID    string
	Topic     string
	Body      []byte
}

type webhookPayload struct {
	Action string `json:"action"`
	Type   string `json:"type"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// IPaymentWebhookUseCase handles payment provider notifications.
//
// Flow:
//   - verify the signature (ErrInvalidSignature otherwise, nothing else runs)
//   - skip non-payment topics and notifications already processed
//   - look the payment up at the provider; only "approved" confirms a booking
//   - confirm through the lifecycle controller, so redelivery is a no-op

type IPaymentWebhookUseCase interface {
	Handle(ctx context.Context, d WebhookDelivery) (WebhookOutcome, error)
}

type PaymentWebhookUseCase struct {
	verifier  interfaces.IWebhookVerifier
	gateway   interfaces.IPaymentGateway
	processed interfaces.IProcessedEventStore
	bookings  IBookingUseCase
}

var _ IPaymentWebhookUseCase = (*PaymentWebhookUseCase)(nil)

// NewPaymentWebhookUseCase wires webhook processing. processed may be nil,
// in which case idempotency rests on the booking state machine alone.
func NewPaymentWebhookUseCase(verifier interfaces.IWebhookVerifier, gateway interfaces.IPaymentGateway, processed interfaces.IProcessedEventStore, bookings IBookingUseCase) *PaymentWebhookUseCase {
	return &PaymentWebhookUseCase{verifier: verifier, gateway: gateway, processed: processed, bookings: bookings}
}

func (u *PaymentWebhookUseCase) Handle(ctx context.Context, d WebhookDelivery) (WebhookOutcome, error) {
	payload, parseErr := parseWebhookPayload(d.Body)
	dataID := strings.TrimSpace(d.DataID)
	if dataID == "" && parseErr == nil {
		dataID = rawID(payload.Data.ID)
	}
	log.Printf("[payment][webhook] received request_id=%s data_id=%s topic=%s body_len=%d", d.RequestID, dataID, d.Topic, len(d.Body))

	if u.verifier == nil {
		log.Printf("[payment][webhook] verifier not configured request_id=%s", d.RequestID)
		return "", ErrInvalidSignature
	}
	if err := u.verifier.Verify(d.Signature, d.RequestID, dataID); err != nil {
		log.Printf("[payment][webhook] signature rejected request_id=%s err=%v", d.RequestID, err)
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if parseErr != nil {
		log.Printf("[payment][webhook] unparseable body ignored request_id=%s err=%v", d.RequestID, parseErr)
		return WebhookIgnored, nil
	}
	topic := strings.TrimSpace(d.Topic)
	if topic == "" {
		topic = payload.Type
	}
	if topic != "payment" {
		log.Printf("[payment][webhook] topic ignored request_id=%s topic=%s action=%s", d.RequestID, topic, payload.Action)
		return WebhookIgnored, nil
	}
	if dataID == "" {
		log.Printf("[payment][webhook] missing data id ignored request_id=%s", d.RequestID)
		return WebhookIgnored, nil
	}

	key := "payment:" + dataID
	if u.processed != nil {
		seen, err := u.processed.Seen(ctx, key)
		if err != nil {
			log.Printf("[payment][webhook] dedupe lookup failed key=%s err=%v", key, err)
		} else if seen {
			log.Printf("[payment][webhook] duplicate ignored key=%s", key)
			return WebhookIgnored, nil
		}
	}

	if u.gateway == nil {
		log.Printf("[payment][webhook] gateway not configured data_id=%s", dataID)
		return "", ErrGatewayUnavailable
	}
	p, err := u.gateway.GetPayment(ctx, dataID)
	if err != nil {
		log.Printf("[payment][webhook] provider lookup failed data_id=%s err=%v", dataID, err)
		return "", fmt.Errorf("%w: %v", ErrGatewayError, err)
	}
	if !p.Approved() {
		log.Printf("[payment][webhook] payment not approved ignored data_id=%s status=%s", dataID, p.Status)
		return WebhookIgnored, nil
	}
	if strings.TrimSpace(p.BookingID) == "" {
		log.Printf("[payment][webhook] payment without booking reference ignored data_id=%s", dataID)
		u.markProcessed(ctx, key)
		return WebhookIgnored, nil
	}

	b, err := u.bookings.ConfirmPayment(ctx, p.BookingID, p.ID)
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, entities.ErrIllegalTransition):
		log.Printf("[payment][webhook] confirm skipped booking_id=%s payment_id=%s err=%v", p.BookingID, p.ID, err)
		u.markProcessed(ctx, key)
		return WebhookIgnored, nil
	case err != nil:
		log.Printf("[payment][webhook] confirm failed booking_id=%s payment_id=%s err=%v", p.BookingID, p.ID, err)
		return "", err
	}

	u.markProcessed(ctx, key)
	log.Printf("[payment][webhook] payment confirmed booking_id=%s payment_id=%s payment_status=%s", b.ID, p.ID, b.PaymentStatus)
	return WebhookProcessed, nil
}

func (u *PaymentWebhookUseCase) markProcessed(ctx context.Context, key string) {
	if u.processed == nil {
		return
	}
	if err := u.processed.MarkProcessed(ctx, key, processedEventTTL); err != nil {
		log.Printf("[payment][webhook] mark processed failed key=%s err=%v", key, err)
	}
}

func parseWebhookPayload(body []byte) (webhookPayload, error) {
	var p webhookPayload
	if len(body) == 0 {
		return p, errors.New("empty body")
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return p, err
	}
	return p, nil
}

// rawID accepts both "123" and 123 for data.id.
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return s
}
