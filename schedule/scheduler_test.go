package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler(t *testing.T) {
	t.Run("task runs after the delay", func(t *testing.T) {
		s := NewScheduler()
		defer s.Stop()

		done := make(chan struct{})
		s.After(time.Millisecond, func(ctx context.Context) { close(done) })

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
	})

	t.Run("cancelled task never runs", func(t *testing.T) {
		s := NewScheduler()
		defer s.Stop()

		var ran atomic.Bool
		cancel := s.After(20*time.Millisecond, func(ctx context.Context) { ran.Store(true) })
		cancel()

		time.Sleep(50 * time.Millisecond)
		require.False(t, ran.Load())
	})

	t.Run("stop cancels all pending tasks without leaks", func(t *testing.T) {
		s := NewScheduler()

		var ran atomic.Int32
		for i := 0; i < 10; i++ {
			s.After(time.Hour, func(ctx context.Context) { ran.Add(1) })
		}
		s.Stop()
		require.Zero(t, ran.Load())
	})

	t.Run("schedule after stop is a no-op", func(t *testing.T) {
		s := NewScheduler()
		s.Stop()

		var ran atomic.Bool
		cancel := s.After(time.Millisecond, func(ctx context.Context) { ran.Store(true) })
		cancel()
		time.Sleep(10 * time.Millisecond)
		require.False(t, ran.Load())
	})

	t.Run("double cancel is safe", func(t *testing.T) {
		s := NewScheduler()
		defer s.Stop()
		cancel := s.After(time.Hour, func(ctx context.Context) {})
		cancel()
		cancel()
	})
}
