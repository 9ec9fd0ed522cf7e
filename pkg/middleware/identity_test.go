package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinehub/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserIDFromContext(r.Context())))
	})
}

func serveIdentity(cfg IdentityConfig, req *http.Request) *httptest.ResponseRecorder {
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	rec := httptest.NewRecorder()
	Identity(cfg)(echoUser()).ServeHTTP(rec, req)
	return rec
}

func TestIdentity_JWT(t *testing.T) {
	cfg := IdentityConfig{JWTSecret: testSecret, PublicPaths: []string{"/api/v1/movies"}}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "sub claim",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-42", "exp": future}),
			wantStatus: http.StatusOK,
			wantUser:   "user-42",
		},
		{
			name:       "user_id fallback",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "user-7"}),
			wantStatus: http.StatusOK,
			wantUser:   "user-7",
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "user-42"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong algorithm",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "user-42"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-42", "exp": time.Now().Add(-time.Hour).Unix()}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no subject",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "admin"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			// The gateway header is ignored once JWT is configured.
			req.Header.Set(UserIDHeader, "spoofed")

			rec := serveIdentity(cfg, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUser, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestIdentity_GatewayHeader(t *testing.T) {
	cfg := IdentityConfig{PublicPaths: []string{"/api/v1/movies"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set(UserIDHeader, " user-1 ")
	rec := serveIdentity(cfg, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())

	rec = serveIdentity(cfg, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentity_PublicPaths(t *testing.T) {
	cfg := IdentityConfig{JWTSecret: testSecret, PublicPaths: []string{"/api/v1/movies"}}

	rec := serveIdentity(cfg, httptest.NewRequest(http.MethodGet, "/api/v1/movies/featured", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serveIdentity(cfg, httptest.NewRequest(http.MethodGet, "/api/v1/moviesx", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
