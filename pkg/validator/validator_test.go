package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,len=10,numeric"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=ADMIN INTERNO EXTERNO"`
}

func TestValidatePasses(t *testing.T) {
	err := Validate(signup{
		Email: "ana@example.com", Phone: "5512345678",
		Password: "password1", ConfirmPassword: "password1",
	})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(signup{
		Email: "not-an-email", Phone: "12ab",
		Password: "short", ConfirmPassword: "other", Role: "ROOT",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	details := vErr.Details()
	assert.Equal(t, "must be a valid email address", details["email"])
	assert.Equal(t, "must be exactly 10 characters", details["phone"])
	assert.Equal(t, "must be at least 8 characters", details["password"])
	assert.Equal(t, "must match password", details["confirmPassword"])
	assert.Equal(t, "must be one of: ADMIN INTERNO EXTERNO", details["role"])
	assert.Contains(t, vErr.Error(), "email must be a valid email address")
}

func TestValidateRequired(t *testing.T) {
	var vErr *ValidationError
	require.True(t, errors.As(Validate(signup{}), &vErr))
	assert.Equal(t, "is required", vErr.Details()["email"])
	_, hasRole := vErr.Details()["role"]
	assert.False(t, hasRole)
}
