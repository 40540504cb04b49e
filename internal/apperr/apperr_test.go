package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindValidation, KindOf(Validation("missing field")))
	require.Equal(t, KindConflict, KindOf(Conflict("exists")))
	require.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	require.Equal(t, KindAuth, KindOf(Auth("nope")))
	require.Equal(t, KindUpstream, KindOf(Upstream("verify failed", errors.New("boom"))))
	require.Equal(t, KindServer, KindOf(errors.New("plain")))

	wrapped := fmt.Errorf("handling request: %w", NotFound("gone"))
	require.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestMessage(t *testing.T) {
	require.Equal(t, "gone", Message(NotFound("gone")))
	require.Equal(t, "Server error", Message(errors.New("internal detail leaks not")))

	err := Server("Server error", errors.New("pg: connection refused"))
	require.Equal(t, "Server error", Message(err))
	require.Contains(t, err.Error(), "connection refused")
	require.NotNil(t, errors.Unwrap(err))
}
