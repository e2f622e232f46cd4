/*
Package schedule runs delayed tasks with cancellation.

It replaces fire-and-forget timer callbacks: every scheduled task can be
cancelled individually, and stopping the scheduler cancels everything that
has not run yet, so a shutting-down component never leaks pending work.
*/
package schedule

import (
	"context"
	"sync"
	"time"
)

type Scheduler struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
	stopped bool
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// After runs fn once the delay elapses, unless cancelled first. The
// returned function cancels this task only; cancelling after the task ran
// is a no-op.
func (s *Scheduler) After(delay time.Duration, fn func(ctx context.Context)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}

	taskCtx, taskCancel := context.WithCancel(s.ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer taskCancel()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-taskCtx.Done():
		case <-timer.C:
			fn(taskCtx)
		}
	}()
	return taskCancel
}

// Stop cancels all pending tasks and waits for their goroutines to exit.
// Tasks already executing observe a cancelled context.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
	s.pending.Wait()
}
