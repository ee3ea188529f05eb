package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/ffdata/pkg/logger"
)

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cb := NewCircuitBreakerService(2, time.Minute, logger.Discard())
	boom := errors.New("feed down")
	fail := func() (interface{}, error) { return nil, boom }

	_, err := cb.Execute("ESPN", fail)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState("ESPN"))

	_, err = cb.Execute("espn", fail)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, gobreaker.StateOpen, cb.GetState("ESPN"))

	called := false
	_, err = cb.Execute("ESPN", func() (interface{}, error) {
		called = true
		return "rows", nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreakerIsolatesSources(t *testing.T) {
	cb := NewCircuitBreakerService(1, time.Minute, logger.Discard())

	_, _ = cb.Execute("CBS", func() (interface{}, error) { return nil, errors.New("timeout") })
	assert.Equal(t, gobreaker.StateOpen, cb.GetState("CBS"))

	out, err := cb.Execute("NFL", func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState("NFL"))
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreakerService(1, 10*time.Millisecond, logger.Discard())

	_, _ = cb.Execute("ESPN", func() (interface{}, error) { return nil, errors.New("500") })
	require.Equal(t, gobreaker.StateOpen, cb.GetState("ESPN"))

	time.Sleep(20 * time.Millisecond)
	_, err := cb.Execute("ESPN", func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState("ESPN"))
}
