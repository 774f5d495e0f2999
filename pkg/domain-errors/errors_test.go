package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfAndMessageOf(t *testing.T) {
	err := New(CodeValidation, "report reason is required")
	assert.Equal(t, CodeValidation, CodeOf(err))
	assert.Equal(t, "report reason is required", MessageOf(err))

	wrapped := Wrap(CodeInternal, "storage failure", errors.New("connection refused"))
	assert.Equal(t, CodeInternal, CodeOf(wrapped))
	assert.Equal(t, "storage failure", MessageOf(wrapped))
	assert.Contains(t, wrapped.Error(), "connection refused")

	plain := errors.New("something else")
	assert.Equal(t, CodeInternal, CodeOf(plain))
	assert.Equal(t, "internal error", MessageOf(plain))
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	cause := New(CodeNotFound, "connection not found")
	assert.True(t, Is(cause, CodeNotFound))
	assert.False(t, Is(cause, CodeConflict))
	assert.False(t, Is(nil, CodeNotFound))

	// errors.As walks the chain, so a fmt-wrapped domain error still matches.
	wrapped := Wrap(CodeInternal, "outer", cause)
	assert.True(t, Is(wrapped, CodeInternal))
}

func TestUnwrapPreservesCause(t *testing.T) {
	sentinelErr := errors.New("row missing")
	wrapped := Wrap(CodeNotFound, "connection not found", sentinelErr)
	assert.True(t, errors.Is(wrapped, sentinelErr))
}

func TestToHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeValidation:   http.StatusBadRequest,
		CodeInvalidState: http.StatusUnprocessableEntity,
		CodeConflict:     http.StatusConflict,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus("mystery"))
}
