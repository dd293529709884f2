package service

import (
	"sync"
	"testing"
	"time"
)

func TestDispatchSameUserRunsInOrder(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(quietLogger())
	defer d.Stop()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup

	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		d.Dispatch("u1", func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran out of order (got %d)", i, v)
		}
	}
}

func TestDispatchDifferentUsersRunConcurrently(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(quietLogger())
	defer d.Stop()

	// One user blocks its queue; the other user's task must still run.
	release := make(chan struct{})
	done := make(chan struct{})

	d.Dispatch("blocked", func() { <-release })
	d.Dispatch("free", func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task for an independent user was blocked")
	}
	close(release)
}

func TestDispatchAfterStopDropsTask(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(quietLogger())
	d.Stop()

	ran := make(chan struct{})
	d.Dispatch("u1", func() { close(ran) })

	select {
	case <-ran:
		t.Fatal("task ran after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatchReusesQueueAcrossBursts(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(quietLogger())
	defer d.Stop()

	for burst := 0; burst < 3; burst++ {
		done := make(chan struct{})
		d.Dispatch("u1", func() { close(done) })
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("burst %d never ran", burst)
		}
	}
}
