package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a virtual-clock scheduler. Nothing runs until Advance moves the
// clock past a task's due time.
type Manual struct {
	mu  sync.Mutex
	now time.Time
	q   queue
	seq uint64
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Submit enqueues tasks relative to the virtual clock.
func (m *Manual) Submit(tasks ...Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.q.push(m.now, &m.seq, tasks)
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.q.Len()
}

// Advance moves the clock forward by d, running every task that falls due on
// the way at its own due time. Tasks submitted while advancing are included.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for m.q.Len() > 0 && !m.q[0].due.After(target) {
		it := heap.Pop(&m.q).(*item)
		if it.due.After(m.now) {
			m.now = it.due
		}
		m.mu.Unlock()
		it.run()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// RunAll advances until the queue is empty.
func (m *Manual) RunAll() {
	for {
		m.mu.Lock()
		if m.q.Len() == 0 {
			m.mu.Unlock()
			return
		}
		next := m.q[0].due.Sub(m.now)
		m.mu.Unlock()
		m.Advance(next)
	}
}
