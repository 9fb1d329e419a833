package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type batch struct {
	at    time.Time
	tasks []Task
}

// Loop is the production scheduler: one goroutine owns the queue and runs
// every task. Submit never blocks, so tasks may submit follow-ups.
type Loop struct {
	mu      sync.Mutex
	pending []batch
	wake    chan struct{}
	logger  *zap.Logger
}

// NewLoop creates a loop. Call Run to start it.
func NewLoop(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Submit hands tasks to the loop goroutine. Delays count from this call.
func (l *Loop) Submit(tasks ...Task) {
	if len(tasks) == 0 {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, batch{at: time.Now(), tasks: tasks})
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled. Tasks still queued at that
// point are dropped.
func (l *Loop) Run(ctx context.Context) {
	var (
		q   queue
		seq uint64
	)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		l.collect(&q, &seq)

		now := time.Now()
		for q.Len() > 0 && !q[0].due.After(now) {
			it := heap.Pop(&q).(*item)
			l.runTask(it.run)
			l.collect(&q, &seq)
		}

		var wait <-chan time.Time
		if q.Len() > 0 {
			timer.Reset(time.Until(q[0].due))
			wait = timer.C
		} else {
			timer.Stop()
		}

		select {
		case <-ctx.Done():
			if q.Len() > 0 {
				l.logger.Debug("Scheduler stopped with pending tasks", zap.Int("pending", q.Len()))
			}
			return
		case <-l.wake:
		case <-wait:
		}
	}
}

func (l *Loop) collect(q *queue, seq *uint64) {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, b := range pending {
		q.push(b.at, seq, b.tasks)
	}
}

func (l *Loop) runTask(run func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Scheduled task panicked", zap.Any("panic", r))
		}
	}()
	run()
}
