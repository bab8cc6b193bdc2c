package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillyfan-api/internal/domain"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestUserIDValidToken(t *testing.T) {
	verifier := NewVerifier("secret", "")
	userID, err := verifier.UserID(signToken(t, "secret", "user-42"))
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestUserIDWrongSecret(t *testing.T) {
	verifier := NewVerifier("secret", "")
	_, err := verifier.UserID(signToken(t, "other-secret", "user-42"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserIDExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	verifier := NewVerifier("secret", "")
	_, err = verifier.UserID(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserIDMissingSubject(t *testing.T) {
	verifier := NewVerifier("secret", "")
	_, err := verifier.UserID(signToken(t, "secret", ""))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserIDNoSecretConfigured(t *testing.T) {
	verifier := NewVerifier("", "")
	_, err := verifier.UserID(signToken(t, "secret", "user-42"))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestMiddlewareBearerHeader(t *testing.T) {
	verifier := NewVerifier("secret", "")
	var gotUserID string
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/coins/balance", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "user-42"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", gotUserID)
}

func TestMiddlewareCookieFallback(t *testing.T) {
	verifier := NewVerifier("secret", "auth_token")
	var gotUserID string
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/coins/balance", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: signToken(t, "secret", "user-7")})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", gotUserID)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	verifier := NewVerifier("secret", "")
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/coins/balance", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing or invalid authentication token"}`, rec.Body.String())
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	verifier := NewVerifier("secret", "")
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/coins/balance", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
