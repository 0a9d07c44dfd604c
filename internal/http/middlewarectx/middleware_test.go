package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/jwt"
)

type ValidatorMock struct {
	mock.Mock
}

func (m *ValidatorMock) ValidateToken(ctx context.Context, token string) (*jwt.SubjectClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*jwt.SubjectClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		_, _ = w.Write([]byte("ok"))
	})
}

func TestCORS(t *testing.T) {
	cfg := config.CORS{
		FrontendDomain: "https://alcateiahits.org",
		AllowedOrigins: []string{"https://alcateiahits.org", "http://localhost:3000"},
	}

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantCalled bool
		wantBody   string
	}{
		{name: "allowed origin echoed", method: http.MethodGet, origin: "http://localhost:3000",
			wantOrigin: "http://localhost:3000", wantCalled: true, wantBody: "ok"},
		{name: "unknown origin falls back", method: http.MethodPost, origin: "https://evil.example",
			wantOrigin: "https://alcateiahits.org", wantCalled: true, wantBody: "ok"},
		{name: "no origin falls back", method: http.MethodGet,
			wantOrigin: "https://alcateiahits.org", wantCalled: true, wantBody: "ok"},
		{name: "preflight short-circuits", method: http.MethodOptions, origin: "http://localhost:3000",
			wantOrigin: "http://localhost:3000", wantCalled: false, wantBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := middlewarectx.CORS(cfg)(okHandler(&called))

			req := httptest.NewRequest(tt.method, "/api/anything", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
			assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	called := false
	h := middlewarectx.RateLimitMiddleware(newNoopLogger(), config.RateLimit{RPS: 0.001, Burst: 2})(okHandler(&called))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/email/verify", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestJWTMiddleware(t *testing.T) {
	validClaims := &jwt.SubjectClaims{Email: "ana@example.org"}
	validClaims.Subject = "u-1"

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *jwt.SubjectClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "missing Authorization header", wantStatusCode: http.StatusUnauthorized},
		{name: "invalid Authorization header prefix", authHeader: "Basic sometoken", wantStatusCode: http.StatusUnauthorized},
		{name: "token validation error", authHeader: "Bearer token", mockErr: errors.New("expired"),
			wantStatusCode: http.StatusUnauthorized},
		{name: "token without subject", authHeader: "Bearer token", mockClaims: &jwt.SubjectClaims{Email: "x@example.org"},
			wantStatusCode: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer token", mockClaims: validClaims,
			wantStatusCode: http.StatusOK, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(ValidatorMock)
			if tt.mockClaims != nil || tt.mockErr != nil {
				auth.On("ValidateToken", mock.Anything, "token").Return(tt.mockClaims, tt.mockErr).Once()
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, "u-1", r.Context().Value(middlewarectx.UserID))
				assert.Equal(t, "ana@example.org", r.Context().Value(middlewarectx.Email))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			middlewarectx.JWTMiddleware(auth, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			auth.AssertExpectations(t)
		})
	}
}

type recorderMock struct {
	method, route string
	status        int
}

func (r *recorderMock) HTTPRequest(method, route string, status int) {
	r.method, r.route, r.status = method, route, status
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	rec := &recorderMock{}
	r := chi.NewRouter()
	r.Use(middlewarectx.Metrics(rec))
	r.Get("/api/subscriptions/{user_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/subscriptions/42", nil))

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/subscriptions/{user_id}", rec.route)
	assert.Equal(t, http.StatusTeapot, rec.status)
}
