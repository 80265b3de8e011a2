package resetpassword

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/member-auth/internal/apperr"
	"github.com/magabrotheeeer/member-auth/internal/models"
)

// Мок сервиса с методом ResetPassword
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, *models.User, error) {
	args := m.Called(ctx, resetToken, newPassword)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResetPasswordHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	testUser := &models.User{
		UID:   "some-uuid-string",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  models.RoleUser,
	}

	validToken := "3c9f1e2d4b5a6978812345abcdef0123456789ab"

	tests := []struct {
		name           string
		urlToken       string
		requestBody    interface{}
		mockToken      string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
	}{
		{
			name:           "successful reset",
			urlToken:       validToken,
			requestBody:    Request{Password: "newpass1"},
			mockToken:      "fresh-jwt",
			mockUser:       testUser,
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
		},
		{
			name:           "missing token in url",
			urlToken:       "",
			requestBody:    Request{Password: "newpass1"},
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "reset token is required",
		},
		{
			name:           "invalid json body",
			urlToken:       validToken,
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "invalid request body",
		},
		{
			name:           "validation error - password too short",
			urlToken:       validToken,
			requestBody:    Request{Password: "abc"},
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "field Password must be at least 6 characters long",
		},
		{
			name:           "token mismatch or expired",
			urlToken:       "0000000000000000000000000000000000000000",
			requestBody:    Request{Password: "newpass1"},
			mockErr:        apperr.New(apperr.KindForbidden, "reset token is invalid or has expired"),
			wantStatusCode: http.StatusForbidden,
			wantSuccess:    false,
			wantMessage:    "reset token is invalid or has expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockToken != "" || tt.mockErr != nil {
				serviceMock.On("ResetPassword", mock.Anything, tt.urlToken, "newpass1").
					Return(tt.mockToken, tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPut, "/api/v2/auth/resetpassword/"+tt.urlToken, bytes.NewReader(bodyBytes))

			rctx := chi.NewRouteContext()
			if tt.urlToken != "" {
				rctx.URLParams.Add("resettoken", tt.urlToken)
			}
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, got["success"])

			if tt.wantMessage != "" {
				msg, ok := got["message"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMessage, msg)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "fresh-jwt", data["token"])
				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "alice@example.com", user["email"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
