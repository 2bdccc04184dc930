package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func protectedHandler(roles ...string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	var h http.Handler = ok
	if len(roles) > 0 {
		h = RequireRole(roles...)(h)
	}
	return Authenticate(testSecret)(h)
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{
			"wrong signing key",
			"Bearer " + signToken(t, []byte("other-secret"), jwt.MapClaims{"role": "organizer"}),
			http.StatusUnauthorized,
		},
		{
			"expired token",
			"Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"role": "organizer",
				"exp":  time.Now().Add(-time.Hour).Unix(),
			}),
			http.StatusUnauthorized,
		},
		{
			"valid token",
			"Bearer " + signToken(t, testSecret, jwt.MapClaims{"role": "organizer"}),
			http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protectedHandler().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthenticateRejectsNonHMACAlgorithms(t *testing.T) {
	// alg=none tokens must never pass, regardless of claims.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+unsigned)
	rec := httptest.NewRecorder()
	protectedHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"allowed role", "organizer", http.StatusOK},
		{"second allowed role", "admin", http.StatusOK},
		{"other role", "player", http.StatusForbidden},
		{"missing role claim", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := jwt.MapClaims{}
			if tt.role != "" {
				claims["role"] = tt.role
			}
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
			rec := httptest.NewRecorder()
			protectedHandler("organizer", "admin").ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
