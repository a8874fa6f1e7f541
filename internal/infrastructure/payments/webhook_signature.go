package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"careconnect/internal/usecase/interfaces"
)

var (
	ErrMissingWebhookSecret = errors.New("missing MERCADOPAGO_WEBHOOK_SECRET")
	ErrMalformedSignature   = errors.New("malformed x-signature header")
	ErrSignatureMismatch    = errors.New("signature mismatch")
)

// WebhookSignatureVerifier checks Mercado Pago's x-signature header.
//
// Header format: "ts=<unix>,v1=<hex hmac>". The HMAC-SHA256 is computed with
// the webhook secret over the manifest
//
//	id:<data.id>;request-id:<x-request-id>;ts:<ts>;
//
// where id and request-id parts are omitted when absent.
type WebhookSignatureVerifier struct {
	secret []byte
}

var _ interfaces.IWebhookVerifier = (*WebhookSignatureVerifier)(nil)

func NewWebhookSignatureVerifier(secret string) *WebhookSignatureVerifier {
	return &WebhookSignatureVerifier{secret: []byte(strings.TrimSpace(secret))}
}

func (v *WebhookSignatureVerifier) Verify(signature, requestID, dataID string) error {
	if v == nil || len(v.secret) == 0 {
		return ErrMissingWebhookSecret
	}
	ts, sig, err := parseSignatureHeader(signature)
	if err != nil {
		return err
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrMalformedSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(signatureManifest(dataID, requestID, ts)))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}

func parseSignatureHeader(header string) (ts, v1 string, err error) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	if ts == "" || v1 == "" {
		return "", "", ErrMalformedSignature
	}
	return ts, v1, nil
}

func signatureManifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		// Alphanumeric ids are signed lowercased.
		b.WriteString("id:" + strings.ToLower(dataID) + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	b.WriteString("ts:" + ts + ";")
	return b.String()
}
