package futures

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFailedProjection(t *testing.T) {
	t.Run("source failed with a plain cause", func(t *testing.T) {
		targetErr := errors.New("boom")
		p := NewPromise[int]()
		p.Fail(targetErr)

		got, err := blockOn(t, p.Future().Failed())
		require.NoError(t, err)
		require.ErrorIs(t, got, targetErr)
	})

	t.Run("source succeeded", func(t *testing.T) {
		p := NewPromise[int]()
		p.Fulfill(5)

		_, err := blockOn(t, p.Future().Failed())
		var nf NotFailedError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, 5, nf.Value)
		require.False(t, nf.TimedOut)
	})

	t.Run("source timed out", func(t *testing.T) {
		p := NewPromise[int]()
		p.Fail(&TimeoutError{After: time.Second})

		_, err := blockOn(t, p.Future().Failed())
		var nf NotFailedError
		require.ErrorAs(t, err, &nf)
		require.True(t, nf.TimedOut)
	})
}

func TestExpiredProjection(t *testing.T) {
	t.Run("source timed out", func(t *testing.T) {
		p := NewPromise[int]()
		p.Fail(&TimeoutError{After: time.Second})

		got, err := blockOn(t, p.Future().Expired())
		require.NoError(t, err)
		require.Equal(t, time.Second, got.After)
	})

	t.Run("source failed with a plain cause", func(t *testing.T) {
		targetErr := errors.New("boom")
		p := NewPromise[int]()
		p.Fail(targetErr)

		_, err := blockOn(t, p.Future().Expired())
		var nt NotTimedOutError
		require.ErrorAs(t, err, &nt)
		require.ErrorIs(t, nt.Cause, targetErr)
	})

	t.Run("source succeeded", func(t *testing.T) {
		p := NewPromise[int]()
		p.Fulfill(5)

		_, err := blockOn(t, p.Future().Expired())
		var nt NotTimedOutError
		require.ErrorAs(t, err, &nt)
		require.Equal(t, 5, nt.Value)
	})
}

func TestProjectionsPreserveConfig(t *testing.T) {
	mc := &manualContext{}
	p := NewPromise[int](WithExecutionContext(mc), WithTimeout(time.Minute))

	failed := p.Future().Failed()
	expired := p.Future().Expired()

	require.Equal(t, time.Minute, failed.Timeout())
	require.Equal(t, time.Minute, expired.Timeout())
	require.Same(t, mc, failed.ExecutionContext())
	require.Same(t, mc, expired.ExecutionContext())
}
