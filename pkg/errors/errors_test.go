package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", ErrRefreshInProgress)
	got := FromError(wrapped)
	assert.Equal(t, ErrRefreshInProgress.Code, got.Code)
	assert.Equal(t, http.StatusConflict, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, "internal server error: boom", got.Error())
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	clone := Clone(ErrNotFound, "course not found")
	assert.Equal(t, "course not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.NotSame(t, ErrNotFound, clone)
	cause := errors.New("timeout")
	assert.ErrorIs(t, Wrap(cause, ErrUpstream.Code, ErrUpstream.Status, "ratings search failed"), cause)
}
