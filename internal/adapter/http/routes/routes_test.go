package routes

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careconnect/internal/adapter/http/middleware"
	"careconnect/internal/config"
	"careconnect/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	testJWTSecret     = "jwt-secret"
	testWebhookSecret = "webhook-secret"
)

func testConfig() config.App {
	return config.App{
		GinMode:                  gin.TestMode,
		CORSAllowedOrigins:       "*",
		BookingStore:             config.StoreMemory,
		JWTSecret:                testJWTSecret,
		MercadoPagoWebhookSecret: testWebhookSecret,
		CheckoutCurrency:         "BRL",
		CheckoutSuccessURL:       "https://app.local/checkout/success",
		PaymentGatewayMock:       true,
		ReleaseHoldback:          24 * time.Hour,
		ReleaseInterval:          time.Hour,
	}
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPIClient(t *testing.T, cfg config.App) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	deps, err := buildDependencies(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build dependencies: %v", err)
	}
	t.Cleanup(deps.close)
	return &apiClient{t: t, router: newRouter(cfg, deps)}
}

func (a *apiClient) do(method, path string, caller *entities.Caller, body string) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		token, err := middleware.IssueToken(testJWTSecret, caller.ID, caller.Role, time.Hour)
		if err != nil {
			a.t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *apiClient) webhook(dataID, requestID, secret string) *httptest.ResponseRecorder {
	a.t.Helper()
	ts := "1700000000"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)))

	body := fmt.Sprintf(`{"action":"payment.updated","type":"payment","data":{"id":%q}}`, dataID)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment-provider?type=payment&data.id="+dataID, bytes.NewBufferString(body))
	req.Header.Set("x-signature", "ts="+ts+",v1="+hex.EncodeToString(mac.Sum(nil)))
	req.Header.Set("x-request-id", requestID)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestRouter_BookingLifecycle(t *testing.T) {
	api := newAPIClient(t, testConfig())
	family := &entities.Caller{ID: "fam-1", Role: entities.RoleFamily}
	caregiver := &entities.Caller{ID: "cg-1", Role: entities.RoleCaregiver}
	stranger := &entities.Caller{ID: "fam-2", Role: entities.RoleFamily}
	admin := &entities.Caller{ID: "ops-1", Role: entities.RoleAdmin}

	w, created := api.do(http.MethodPost, "/v1/bookings", family,
		`{"caregiver_id":"cg-1","start_date":"2024-03-10","end_date":"2024-03-12","hours_per_day":5,"rate_per_hour":"30"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", w.Code, w.Body.String())
	}
	id, _ := created["id"].(string)
	if created["total_amount"] != "300.00" || created["service_fee"] != "30.00" || created["caregiver_amount"] != "270.00" {
		t.Fatalf("create: unexpected amounts %v", created)
	}

	if w, _ := api.do(http.MethodGet, "/v1/bookings/"+id, stranger, ""); w.Code != http.StatusForbidden {
		t.Fatalf("get by stranger: expected 403, got %d", w.Code)
	}
	if w, _ := api.do(http.MethodPost, "/v1/bookings/"+id+"/accept", family, ""); w.Code != http.StatusForbidden {
		t.Fatalf("accept by family: expected 403, got %d", w.Code)
	}
	if w, _ := api.do(http.MethodPost, "/v1/bookings/"+id+"/checkout", family, ""); w.Code != http.StatusConflict {
		t.Fatalf("checkout pending: expected 409, got %d", w.Code)
	}
	if w, body := api.do(http.MethodPost, "/v1/bookings/"+id+"/accept", caregiver, ""); w.Code != http.StatusOK || body["status"] != "confirmed" {
		t.Fatalf("accept: expected 200 confirmed, got %d %v", w.Code, body)
	}

	w, checkout := api.do(http.MethodPost, "/v1/bookings/"+id+"/checkout", family, "")
	if w.Code != http.StatusOK || checkout["payment_status"] != "payment_initiated" || checkout["session_id"] == "" {
		t.Fatalf("checkout: expected 200 payment_initiated, got %d %v", w.Code, checkout)
	}

	if w := api.webhook("mock-"+id, "req-1", "wrong-secret"); w.Code != http.StatusBadRequest {
		t.Fatalf("webhook bad signature: expected 400, got %d", w.Code)
	}
	if w := api.webhook("mock-"+id, "req-2", testWebhookSecret); w.Code != http.StatusOK || w.Body.String() != `{"status":"processed"}` {
		t.Fatalf("webhook: expected processed, got %d %s", w.Code, w.Body.String())
	}
	if w := api.webhook("mock-"+id, "req-3", testWebhookSecret); w.Code != http.StatusOK || w.Body.String() != `{"status":"ignored"}` {
		t.Fatalf("webhook redelivery: expected ignored, got %d %s", w.Code, w.Body.String())
	}

	w, paid := api.do(http.MethodGet, "/v1/bookings/"+id, caregiver, "")
	if w.Code != http.StatusOK || paid["payment_status"] != "paid_unreleased" || paid["personal_details_visible"] != false {
		t.Fatalf("get after payment: unexpected %d %v", w.Code, paid)
	}

	if w, _ := api.do(http.MethodPost, "/v1/admin/release-payments", family, ""); w.Code != http.StatusForbidden {
		t.Fatalf("release by family: expected 403, got %d", w.Code)
	}
	w, summary := api.do(http.MethodPost, "/v1/admin/release-payments", admin, "")
	if w.Code != http.StatusOK || summary["released"] != float64(1) {
		t.Fatalf("release: expected 1 released, got %d %v", w.Code, summary)
	}

	w, released := api.do(http.MethodGet, "/v1/bookings/"+id, family, "")
	if w.Code != http.StatusOK || released["payment_status"] != "released" || released["personal_details_visible"] != true {
		t.Fatalf("get after release: unexpected %d %v", w.Code, released)
	}

	if w, body := api.do(http.MethodPost, "/v1/bookings/"+id+"/complete", family, ""); w.Code != http.StatusOK || body["status"] != "completed" {
		t.Fatalf("complete: expected 200 completed, got %d %v", w.Code, body)
	}
}

func TestRouter_PublicAndAuth(t *testing.T) {
	api := newAPIClient(t, testConfig())

	if w, body := api.do(http.MethodGet, "/v1/ping", nil, ""); w.Code != http.StatusOK || body["message"] != "pong" {
		t.Fatalf("ping: unexpected %d %v", w.Code, body)
	}
	if w, body := api.do(http.MethodGet, "/v1/bookings", nil, ""); w.Code != http.StatusUnauthorized || body["code"] != "MISSING_CREDENTIALS" {
		t.Fatalf("list without token: unexpected %d %v", w.Code, body)
	}

	caregiver := &entities.Caller{ID: "cg-1", Role: entities.RoleCaregiver}
	w, quote := api.do(http.MethodPost, "/v1/bookings/quote", caregiver,
		`{"start_date":"2024-03-10","end_date":"2024-03-11","hours_per_day":8,"rate_per_hour":"12.50"}`)
	if w.Code != http.StatusOK || quote["total_amount"] != "100.00" || quote["service_fee"] != "10.00" {
		t.Fatalf("quote: unexpected %d %v", w.Code, quote)
	}
}

func TestRouter_CheckoutWithoutGateway(t *testing.T) {
	cfg := testConfig()
	cfg.PaymentGatewayMock = false
	api := newAPIClient(t, cfg)
	family := &entities.Caller{ID: "fam-1", Role: entities.RoleFamily}
	caregiver := &entities.Caller{ID: "cg-1", Role: entities.RoleCaregiver}

	_, created := api.do(http.MethodPost, "/v1/bookings", family,
		`{"caregiver_id":"cg-1","start_date":"2030-01-01","end_date":"2030-01-03","hours_per_day":4,"rate_per_hour":20}`)
	id, _ := created["id"].(string)
	api.do(http.MethodPost, "/v1/bookings/"+id+"/accept", caregiver, "")

	w, body := api.do(http.MethodPost, "/v1/bookings/"+id+"/checkout", family, "")
	if w.Code != http.StatusBadRequest || body["code"] != "PAYMENT_GATEWAY_UNAVAILABLE" {
		t.Fatalf("checkout: expected 400 PAYMENT_GATEWAY_UNAVAILABLE, got %d %v", w.Code, body)
	}
}

func TestBuildDependencies_UnknownStore(t *testing.T) {
	cfg := testConfig()
	cfg.BookingStore = "cassandra"
	if _, err := buildDependencies(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestCorsConfig(t *testing.T) {
	if c := corsConfig([]string{"*"}); !c.AllowAllOrigins || c.AllowCredentials {
		t.Fatalf("expected allow-all without credentials, got %+v", c)
	}
	c := corsConfig([]string{"https://app.careconnect.local"})
	if c.AllowAllOrigins || len(c.AllowOrigins) != 1 || !c.AllowCredentials {
		t.Fatalf("unexpected config: %+v", c)
	}
}
