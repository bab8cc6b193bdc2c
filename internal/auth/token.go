// Package auth verifies bearer tokens for the ledger endpoints. Tokens are
// issued elsewhere; this service only validates the HS256 signature against
// the shared secret and extracts the user ID.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phillyfan-api/internal/domain"
)

type contextKey struct{}

var userIDKey contextKey

// Verifier validates tokens against the shared signing secret.
type Verifier struct {
	secret     []byte
	cookieName string
}

// NewVerifier creates a token verifier.
func NewVerifier(secret, cookieName string) *Verifier {
	if cookieName == "" {
		cookieName = "auth_token"
	}
	return &Verifier{secret: []byte(secret), cookieName: cookieName}
}

// UserID validates a raw token and returns its subject.
func (v *Verifier) UserID(raw string) (string, error) {
	if len(v.secret) == 0 {
		return "", domain.ErrNotConfigured
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", domain.ErrUnauthorized
	}
	return subject, nil
}

// tokenFrom extracts the raw token from the Authorization header or the
// auth cookie, in that order.
func (v *Verifier) tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if raw, found := strings.CutPrefix(header, "Bearer "); found {
			return raw
		}
	}
	if cookie, err := r.Cookie(v.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Middleware rejects requests without a valid token and injects the user ID
// into the request context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := v.tokenFrom(r)
		if raw == "" {
			unauthorized(w)
			return
		}

		userID, err := v.UserID(raw)
		if err != nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success":false,"error":%q}`, domain.ErrUnauthorized.Error())
}

// WithUserID stores a user ID on a context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom reads the authenticated user ID off a context.
func UserIDFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
