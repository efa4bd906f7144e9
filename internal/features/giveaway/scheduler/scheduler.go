package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"giveaway-bot/internal/common/logger"
)

// Timer runs one-shot delayed tasks. Every task gets an id that cancels it.
type Timer struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	mu    sync.Mutex
	tasks map[string]*time.Timer
	wg    sync.WaitGroup
}

// NewTimer creates a scheduler whose tasks each run under a context bounded by timeout.
func NewTimer(timeout time.Duration) *Timer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Timer{
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		tasks:   make(map[string]*time.Timer),
	}
}

// Schedule runs fn once after delay and returns the task id. After Stop it returns ""
// and fn never runs.
func (t *Timer) Schedule(delay time.Duration, fn func(ctx context.Context)) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ctx.Err() != nil {
		return ""
	}

	id := uuid.NewString()
	t.wg.Add(1)
	t.tasks[id] = time.AfterFunc(delay, func() { t.run(id, fn) })

	logger.Debug().Str("task", id).Dur("delay", delay).Msg("Task scheduled")
	return id
}

// Cancel stops a task that has not started yet. It reports whether the task was pending.
func (t *Timer) Cancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	timer, ok := t.tasks[id]
	if !ok {
		return false
	}
	delete(t.tasks, id)
	timer.Stop()
	t.wg.Done()

	logger.Debug().Str("task", id).Msg("Task cancelled")
	return true
}

// Pending returns the number of tasks waiting for their delay to elapse.
func (t *Timer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tasks)
}

// Stop drops every pending task and waits for running ones to finish.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.cancel()
	for id, timer := range t.tasks {
		timer.Stop()
		delete(t.tasks, id)
		t.wg.Done()
	}
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Timer) run(id string, fn func(ctx context.Context)) {
	t.mu.Lock()
	if _, ok := t.tasks[id]; !ok {
		// cancelled between firing and here
		t.mu.Unlock()
		return
	}
	delete(t.tasks, id)
	t.mu.Unlock()

	defer t.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("task", id).Interface("panic", r).Msg("Scheduled task panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()

	fn(ctx)
}
