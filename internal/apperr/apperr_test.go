package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := Validation("bad input")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrAuthentication)

	wrapped := fmt.Errorf("handler: %w", Authentication("nope"))
	assert.ErrorIs(t, wrapped, ErrAuthentication)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{Authentication("x"), http.StatusUnauthorized},
		{Authorization("x"), http.StatusForbidden},
		{NotFound("x"), http.StatusNotFound},
		{errors.New("db down"), http.StatusInternalServerError},
		{fmt.Errorf("wrap: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "bad input", Message(Validation("bad input")))
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
}

func TestValidationf(t *testing.T) {
	err := Validationf("username %q is already in use", "alice")
	assert.Equal(t, `username "alice" is already in use`, err.Message)
	assert.ErrorIs(t, err, ErrValidation)
}
