package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestBreaker(t *testing.T) {
	boom := errors.New("boom")
	fail := func() error { return boom }
	ok := func() error { return nil }

	t.Run("OpensAfterMaxFailures", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(0, 0)}
		b := New("backend", 2, time.Second, WithClock(clock.Now))

		require.ErrorIs(t, b.Call(fail, nil), boom)
		assert.Equal(t, StateClosed, b.State())
		require.ErrorIs(t, b.Call(fail, nil), boom)
		assert.Equal(t, StateOpen, b.State())

		called := false
		err := b.Call(func() error { called = true; return nil }, nil)
		require.ErrorIs(t, err, ErrOpen)
		assert.False(t, called)
	})

	t.Run("HalfOpenRecovers", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(0, 0)}
		b := New("backend", 1, time.Second, WithClock(clock.Now), WithHalfOpenSuccesses(2))

		require.Error(t, b.Call(fail, nil))
		require.Equal(t, StateOpen, b.State())

		clock.now = clock.now.Add(2 * time.Second)
		require.NoError(t, b.Call(ok, nil))
		assert.Equal(t, StateHalfOpen, b.State())
		require.NoError(t, b.Call(ok, nil))
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("HalfOpenFailureReopens", func(t *testing.T) {
		clock := &fakeClock{now: time.Unix(0, 0)}
		b := New("backend", 1, time.Second, WithClock(clock.Now))

		require.Error(t, b.Call(fail, nil))
		clock.now = clock.now.Add(2 * time.Second)
		require.Error(t, b.Call(fail, nil))
		assert.Equal(t, StateOpen, b.State())
	})

	t.Run("UncountableErrorsDoNotTrip", func(t *testing.T) {
		b := New("backend", 1, time.Second)
		never := func(error) bool { return false }

		require.ErrorIs(t, b.Call(fail, never), boom)
		require.ErrorIs(t, b.Call(fail, never), boom)
		assert.Equal(t, StateClosed, b.State())
		assert.Equal(t, 0, b.Stats()["failures"])
	})
}
