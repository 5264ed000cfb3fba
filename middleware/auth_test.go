package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-only"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "https://auth.dusksky.test",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestHMACVerifier(t *testing.T) {
	verifier := NewHMACVerifier(testSecret, "https://auth.dusksky.test")

	expired := validClaims("alice")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims("alice")
	wrongIssuer.Issuer = "https://evil.test"

	noExpiry := validClaims("alice")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "valid", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("alice")), want: "alice"},
		{name: "wrong secret", token: signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("alice")), wantErr: true},
		{name: "wrong algorithm", token: signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims("alice")), wantErr: true},
		{name: "expired", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired), wantErr: true},
		{name: "no expiry", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry), wantErr: true},
		{name: "wrong issuer", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer), wantErr: true},
		{name: "no subject", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("")), wantErr: true},
		{name: "garbage", token: "not.a.jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		userID = "anonymous"
	}
	w.Write([]byte(userID))
}

func TestRequireAuth(t *testing.T) {
	auth := NewAuthenticator(NewHMACVerifier(testSecret, ""))
	handler := auth.RequireAuth(http.HandlerFunc(echoUser))
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("alice"))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "alice"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "no bearer prefix", header: token, wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/friends", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	auth := NewAuthenticator(NewHMACVerifier(testSecret, ""))
	handler := auth.OptionalAuth(http.HandlerFunc(echoUser))
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("bob"))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "valid token", header: "Bearer " + token, want: "bob"},
		{name: "no token", header: "", want: "anonymous"},
		{name: "invalid token", header: "Bearer nope", want: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/bob/relationship", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestGetUserID_EmptyIsAnonymous(t *testing.T) {
	_, ok := GetUserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	userID, ok := GetUserID(WithUserID(context.Background(), "alice"))
	assert.True(t, ok)
	assert.Equal(t, "alice", userID)
}
