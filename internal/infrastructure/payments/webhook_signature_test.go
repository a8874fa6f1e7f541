package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func sign(secret, manifest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignatureVerifier_Verify(t *testing.T) {
	const secret = "whsec"
	valid := "ts=1704908010,v1=" + sign(secret, "id:123;request-id:req-1;ts:1704908010;")

	cases := []struct {
		name      string
		secret    string
		header    string
		requestID string
		dataID    string
		wantErr   error
	}{
		{name: "valid", secret: secret, header: valid, requestID: "req-1", dataID: "123"},
		{name: "valid with spaces", secret: secret, header: " ts=1704908010 , v1=" + sign(secret, "id:123;request-id:req-1;ts:1704908010;"), requestID: "req-1", dataID: "123"},
		{name: "alphanumeric id is lowercased", secret: secret, header: "ts=1,v1=" + sign(secret, "id:abc;request-id:req-1;ts:1;"), requestID: "req-1", dataID: "ABC"},
		{name: "missing parts are omitted", secret: secret, header: "ts=1,v1=" + sign(secret, "ts:1;")},
		{name: "missing secret fails closed", secret: "", header: valid, requestID: "req-1", dataID: "123", wantErr: ErrMissingWebhookSecret},
		{name: "wrong secret", secret: "other", header: valid, requestID: "req-1", dataID: "123", wantErr: ErrSignatureMismatch},
		{name: "tampered data id", secret: secret, header: valid, requestID: "req-1", dataID: "124", wantErr: ErrSignatureMismatch},
		{name: "tampered request id", secret: secret, header: valid, requestID: "req-2", dataID: "123", wantErr: ErrSignatureMismatch},
		{name: "no header", secret: secret, header: "", requestID: "req-1", dataID: "123", wantErr: ErrMalformedSignature},
		{name: "missing v1", secret: secret, header: "ts=1704908010", requestID: "req-1", dataID: "123", wantErr: ErrMalformedSignature},
		{name: "non hex v1", secret: secret, header: "ts=1,v1=zz", requestID: "req-1", dataID: "123", wantErr: ErrMalformedSignature},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewWebhookSignatureVerifier(tc.secret).Verify(tc.header, tc.requestID, tc.dataID)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
