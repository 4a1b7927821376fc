package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
)

var errUpstream = errors.New("upstream down")

func failing(context.Context) error { return errUpstream }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 2, ResetAfter: time.Minute, Name: "test_open"})

	require.ErrorIs(t, cb.Call(context.Background(), failing), errUpstream)
	require.ErrorIs(t, cb.Call(context.Background(), failing), errUpstream)

	called := false
	err := cb.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, commonerrors.ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_IgnoresNonFailures(t *testing.T) {
	errBadRequest := errors.New("bad request")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  1,
		ResetAfter: time.Minute,
		IsFailure:  func(err error) bool { return !errors.Is(err, errBadRequest) },
	})

	_ = cb.Call(context.Background(), func(context.Context) error { return errBadRequest })
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_ResetsAfterWindow(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: 10 * time.Millisecond})

	_ = cb.Call(context.Background(), failing)
	require.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen())
	assert.NoError(t, cb.Call(context.Background(), func(context.Context) error { return nil }))
}
