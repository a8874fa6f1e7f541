package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"careconnect/internal/domain/entities"
	"careconnect/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidRole   = errors.New("invalid role claim")
)

// Claims is the identity token issued by the accounts service.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 identity token.
func IssueToken(secret, sub string, role entities.Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	claims := Claims{
		Sub:  sub,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseCaller validates token and returns the caller it names.
func ParseCaller(secret, token string) (entities.Caller, error) {
	if secret == "" {
		return entities.Caller{}, ErrMissingSecret
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entities.Caller{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Sub) == "" {
		return entities.Caller{}, jwt.ErrTokenInvalidClaims
	}
	role, ok := entities.ParseRole(claims.Role)
	if !ok {
		return entities.Caller{}, ErrInvalidRole
	}
	return entities.Caller{ID: claims.Sub, Role: role}, nil
}

// Identity authenticates the bearer token and stores the caller on the context.
func Identity(secret string) gin.HandlerFunc {
	missing := pkg.NewDomainErrorSimple("MISSING_CREDENTIALS", "Missing bearer token", http.StatusUnauthorized)
	invalid := pkg.NewDomainErrorSimple("INVALID_CREDENTIALS", "Invalid bearer token", http.StatusUnauthorized)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(missing.HTTPStatus, missing.ToHTTPError())
			return
		}
		caller, err := ParseCaller(secret, strings.TrimSpace(token))
		if err != nil {
			log.Printf("[http][identity] token rejected path=%s err=%v", c.FullPath(), err)
			c.AbortWithStatusJSON(invalid.HTTPStatus, invalid.ToHTTPError())
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole lets only the given roles through. It must run after Identity.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	forbidden := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Caller is not allowed to perform this operation", http.StatusForbidden)
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if ok {
			for _, r := range roles {
				if caller.Role == r {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(forbidden.HTTPStatus, forbidden.ToHTTPError())
	}
}

// CallerFrom returns the caller set by Identity.
func CallerFrom(c *gin.Context) (entities.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return entities.Caller{}, false
	}
	caller, ok := v.(entities.Caller)
	return caller, ok
}

// SetCaller is used by tests and internal callers that authenticate differently.
func SetCaller(c *gin.Context, caller entities.Caller) {
	c.Set(callerKey, caller)
}
