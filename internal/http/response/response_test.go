package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	resp := OK(map[string]any{"token": "abc"})

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Message)
	assert.Equal(t, map[string]any{"token": "abc"}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("invalid credentials")

	assert.False(t, resp.Success)
	assert.Equal(t, "invalid credentials", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Name            string `validate:"required"`
		Email           string `validate:"required,email"`
		Password        string `validate:"required,min=6,max=16"`
		ConfirmPassword string `validate:"eqfield=Password"`
	}

	tests := []struct {
		name  string
		input form
		want  []string
	}{
		{
			name:  "all fields missing",
			input: form{},
			want: []string{
				"field Name is a required field",
				"field Email is a required field",
				"field Password is a required field",
			},
		},
		{
			name:  "bad email format",
			input: form{Name: "Alice", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"},
			want:  []string{"field Email must be a valid email address"},
		},
		{
			name:  "password too short",
			input: form{Name: "Alice", Email: "a@x.com", Password: "abc", ConfirmPassword: "abc"},
			want:  []string{"field Password must be at least 6 characters long"},
		},
		{
			name:  "password too long",
			input: form{Name: "Alice", Email: "a@x.com", Password: "waytoolongpassword123", ConfirmPassword: "waytoolongpassword123"},
			want:  []string{"field Password must be at most 16 characters long"},
		},
		{
			name:  "confirm password mismatch",
			input: form{Name: "Alice", Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret2"},
			want:  []string{"field ConfirmPassword must match field Password"},
		},
	}

	validate := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.False(t, resp.Success)
			for _, msg := range tt.want {
				assert.Contains(t, resp.Message, msg)
			}
		})
	}
}
