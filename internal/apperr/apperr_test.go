package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct apperr",
			err:  New(KindConflict, "email is already registered"),
			want: KindConflict,
		},
		{
			name: "wrapped apperr",
			err:  fmt.Errorf("service.Register: %w", New(KindNotFound, "user not found")),
			want: KindNotFound,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "invalid credentials", Message(New(KindUnauthorized, "invalid credentials")))
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection reset")))
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("no rows in result set")
	err := Wrap(KindNotFound, "user not found", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "user not found")
	assert.Contains(t, err.Error(), "no rows")
}

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.HTTPStatus())
	}
}
