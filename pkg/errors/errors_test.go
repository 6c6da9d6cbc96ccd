package errors

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := Clone(ErrMalformedPayload, "calendar must be an array")

	got := FromError(err)
	require.NotNil(t, got)
	assert.Equal(t, "MALFORMED_PAYLOAD", got.Code)
	assert.Equal(t, http.StatusBadGateway, got.Status)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	got := FromError(io.ErrUnexpectedEOF)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, io.ErrUnexpectedEOF)
	assert.Nil(t, FromError(nil))
}

func TestWrapAsMatchesBase(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := WrapAs(ErrUpstreamUnavailable, cause, "")

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUpstreamStatus)
	assert.Equal(t, "challenge API unreachable: dial tcp: connection refused", err.Error())
}
