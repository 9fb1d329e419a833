// Package scheduler runs deferred console actions in time order on a single
// goroutine, so per-dispatch ordering never depends on goroutine timing.
package scheduler

import (
	"container/heap"
	"time"
)

// Task is an action to run Delay after submission.
type Task struct {
	Delay time.Duration
	Run   func()
}

// Scheduler accepts deferred tasks.
type Scheduler interface {
	// Submit enqueues tasks atomically; tasks due at the same instant run in
	// submission order.
	Submit(tasks ...Task)
	// Now is the scheduler's clock.
	Now() time.Time
}

type item struct {
	due time.Time
	seq uint64
	run func()
}

// queue is a min-heap ordered by due time, then submission sequence.
type queue []*item

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*item)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}

func (q *queue) push(now time.Time, seq *uint64, tasks []Task) {
	for _, t := range tasks {
		if t.Run == nil {
			continue
		}
		*seq++
		heap.Push(q, &item{due: now.Add(t.Delay), seq: *seq, run: t.Run})
	}
}
