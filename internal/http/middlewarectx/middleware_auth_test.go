package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/member-auth/internal/http/middlewarectx"
	customjwt "github.com/magabrotheeeer/member-auth/internal/lib/jwt"

	"io"
	"log/slog"
)

// Mock for jwt.Maker
type MakerMock struct {
	mock.Mock
}

func (m *MakerMock) GenerateToken(userUID, role string) (string, error) {
	args := m.Called(userUID, role)
	return args.String(0), args.Error(1)
}

func (m *MakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*customjwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	makerMock := new(MakerMock)
	logger := newNoopLogger()

	handlerCalled := false

	// Test handler which checks context values
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		userUID := r.Context().Value(middlewarectx.UserUID)
		role := r.Context().Value(middlewarectx.Role)
		assert.Equal(t, "some-uuid-string", userUID)
		assert.Equal(t, "user", role)
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.JWTMiddleware(makerMock, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *customjwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token parse error",
			authHeader:     "Bearer badtoken",
			mockClaims:     nil,
			mockErr:        errors.New("token is malformed"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "valid token",
			authHeader: "Bearer validtoken",
			mockClaims: &customjwt.CustomClaims{
				UserUID: "some-uuid-string",
				Role:    "user",
			},
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			makerMock.ExpectedCalls = nil // reset calls
			makerMock.Calls = nil
			if tt.mockClaims != nil || tt.mockErr != nil {
				makerMock.On("ParseToken", strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockClaims, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			makerMock.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		ctxRole        any
		allowedRoles   []string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "role allowed",
			ctxRole:        "publisher",
			allowedRoles:   []string{"publisher"},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "one of several roles allowed",
			ctxRole:        "user",
			allowedRoles:   []string{"user", "publisher"},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "role forbidden",
			ctxRole:        "user",
			allowedRoles:   []string{"publisher"},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "role missing from context",
			ctxRole:        nil,
			allowedRoles:   []string{"user"},
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			middleware := middlewarectx.RequireRole(logger, tt.allowedRoles...)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.ctxRole != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.ctxRole))
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
