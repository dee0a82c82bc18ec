package validators

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Bio      string `json:"bio,omitempty" validate:"max=5"`
}

func TestValidateReportsJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signup{Username: "al", Email: "nope", Bio: "far too long"})
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t,
		"username must be at least 3 characters; email must be a valid email address; bio must be at most 5 characters",
		he.Message)

	assert.NoError(t, v.Validate(&signup{Username: "alice", Email: "a@example.com"}))
}

func TestDescribeRequired(t *testing.T) {
	err := NewValidator().Validate(&signup{})
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "username is required; email is required", he.Message)

	assert.Equal(t, "plain", Describe(errors.New("plain")))
}
