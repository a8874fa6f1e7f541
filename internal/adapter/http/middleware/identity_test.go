package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careconnect/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "s3cret"

func newIdentityRouter(secret string, roles ...entities.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{Identity(secret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID, "role": caller.Role})
	})
	r.GET("/whoami", handlers...)
	return r
}

func doWhoAmI(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentity(t *testing.T) {
	valid, err := IssueToken(testSecret, "fam-1", entities.RoleFamily, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		w := doWhoAmI(newIdentityRouter(testSecret), "Bearer "+valid)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "fam-1" || body["role"] != "family" {
			t.Fatalf("unexpected caller: %v", body)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := doWhoAmI(newIdentityRouter(testSecret), "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "MISSING_CREDENTIALS" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := doWhoAmI(newIdentityRouter("other"), "Bearer "+valid)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("unconfigured secret fails closed", func(t *testing.T) {
		w := doWhoAmI(newIdentityRouter(""), "Bearer "+valid)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired, _ := IssueToken(testSecret, "fam-1", entities.RoleFamily, -time.Minute)
		w := doWhoAmI(newIdentityRouter(testSecret), "Bearer "+expired)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	admin, _ := IssueToken(testSecret, "ops-1", entities.RoleAdmin, time.Hour)
	family, _ := IssueToken(testSecret, "fam-1", entities.RoleFamily, time.Hour)
	r := newIdentityRouter(testSecret, entities.RoleAdmin)

	if w := doWhoAmI(r, "Bearer "+admin); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
	if w := doWhoAmI(r, "Bearer "+family); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for family, got %d", w.Code)
	}
}

func TestParseCaller(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Sub: "x", Role: "root"}).SignedString([]byte(testSecret))
		if _, err := ParseCaller(testSecret, tok); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole, got %v", err)
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "family"}).SignedString([]byte(testSecret))
		if _, err := ParseCaller(testSecret, tok); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("other algorithm rejected", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Sub: "x", Role: "family"}).SignedString([]byte(testSecret))
		if _, err := ParseCaller(testSecret, tok); err == nil {
			t.Fatalf("expected error")
		}
	})
}
