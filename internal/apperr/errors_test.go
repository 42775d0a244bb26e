package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"dispatcherhub/internal/apperr"
)

func TestValidationError_MatchesErrInvalid(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("create: %w", apperr.Validation("bad rate"))

	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.False(t, errors.Is(err, apperr.ErrNotFound))
	require.Equal(t, "bad rate", apperr.Message(err))
}

func TestMessage_PlainError(t *testing.T) {
	t.Parallel()

	require.Equal(t, "not found", apperr.Message(apperr.ErrNotFound))
	require.Equal(t, "", apperr.Message(nil))
}
