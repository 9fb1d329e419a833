package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualRunsInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string
	var at []time.Duration
	record := func(name string) func() {
		return func() {
			got = append(got, name)
			at = append(at, m.Now().Sub(epoch))
		}
	}

	m.Submit(
		Task{Delay: 600 * time.Millisecond, Run: record("c")},
		Task{Delay: 0, Run: record("a")},
		Task{Delay: 300 * time.Millisecond, Run: record("b")},
	)
	assert.Equal(t, 3, m.Pending())

	m.Advance(299 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []time.Duration{0, 300 * time.Millisecond, 600 * time.Millisecond}, at)
	assert.Equal(t, epoch.Add(1299*time.Millisecond), m.Now())
}

func TestManualTiesKeepSubmissionOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []int
	for i := 0; i < 5; i++ {
		m.Submit(Task{Delay: time.Second, Run: func() { got = append(got, i) }})
	}
	m.RunAll()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestManualFollowUpTasks(t *testing.T) {
	m := NewManual(epoch)
	var fired time.Time
	m.Submit(Task{Delay: 100 * time.Millisecond, Run: func() {
		m.Submit(Task{Delay: 2500 * time.Millisecond, Run: func() { fired = m.Now() }})
	}})

	m.Advance(time.Second)
	assert.True(t, fired.IsZero())

	m.RunAll()
	assert.Equal(t, epoch.Add(2600*time.Millisecond), fired)
	assert.Zero(t, m.Pending())
}

func TestManualSkipsNilTasks(t *testing.T) {
	m := NewManual(epoch)
	m.Submit(Task{Delay: time.Second})
	assert.Zero(t, m.Pending())
}

func TestLoopRunsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(zaptest.NewLogger(t))
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	wg.Add(3)
	start := time.Now()
	var elapsed []time.Duration
	for i, d := range []time.Duration{40 * time.Millisecond, 0, 20 * time.Millisecond} {
		loop.Submit(Task{Delay: d, Run: func() {
			mu.Lock()
			got = append(got, i)
			elapsed = append(elapsed, time.Since(start))
			mu.Unlock()
			wg.Done()
		}})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 0}, got)
	assert.GreaterOrEqual(t, elapsed[1], 20*time.Millisecond)
	assert.GreaterOrEqual(t, elapsed[2], 40*time.Millisecond)
}

func TestLoopNestedSubmitAndPanicRecovery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(zaptest.NewLogger(t))
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	fired := make(chan struct{})
	loop.Submit(Task{Run: func() { panic("boom") }})
	loop.Submit(Task{Run: func() {
		loop.Submit(Task{Delay: 10 * time.Millisecond, Run: func() { close(fired) }})
	}})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "nested task did not run")
	}

	cancel()
	<-done
}

func TestLoopStopsWithPendingTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(nil)
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	loop.Submit(Task{Delay: time.Hour, Run: func() { t.Error("should not run") }})
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "loop did not stop")
	}
}
