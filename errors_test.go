package futures

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeoutError(t *testing.T) {
	te := &TimeoutError{After: time.Second}

	require.ErrorIs(t, te, ErrTimedOut)
	require.Contains(t, te.Error(), "1s")
	require.Equal(t, "future timed out", (&TimeoutError{}).Error())
}

func TestPanicError(t *testing.T) {
	targetErr := errors.New("boom")

	require.ErrorIs(t, PanicError{Cause: targetErr}, targetErr)
	require.NoError(t, PanicError{Cause: "boom"}.Unwrap())
	require.Contains(t, PanicError{Cause: "boom"}.Error(), "boom")
}

func TestResult(t *testing.T) {
	ok := Success(5)
	require.True(t, ok.Succeeded())
	require.False(t, ok.TimedOut())
	require.Equal(t, 5, ok.Value())
	require.NoError(t, ok.Cause())

	bad := Failure[int](errors.New("boom"))
	require.False(t, bad.Succeeded())
	require.False(t, bad.TimedOut())

	timedOut := Failure[int](&TimeoutError{After: time.Second})
	require.True(t, timedOut.TimedOut())

	nilCause := Failure[int](nil)
	require.False(t, nilCause.Succeeded())
	require.Error(t, nilCause.Cause())
}
