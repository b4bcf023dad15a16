package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("list categories: %w", BackendUnavailableErr(errors.New("dial tcp: refused")))

	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, BackendUnavailable, KindOf(err))
}

func TestWrapKeepsExistingKind(t *testing.T) {
	original := ValidationErr("name is required", nil)

	assert.Same(t, original, Wrap(original))
	assert.Equal(t, Internal, Wrap(errors.New("boom")).Kind)
	assert.Nil(t, Wrap(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ValidationErr("bad", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(BackendUnavailableErr(nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFoundErr("missing")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(PartiallyWrittenErr("half", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Category already exists", PublicMessage(ValidationErr("Category already exists", nil)))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("secret detail")))
}
