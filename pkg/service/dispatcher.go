package service

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultQueueIdleTTL is how long an empty per-user queue lingers
	// before its goroutine exits and the queue is reclaimed.
	DefaultQueueIdleTTL = 2 * time.Minute
)

// Dispatcher serializes event handling per user: tasks for one user run
// strictly in arrival order on a dedicated goroutine, tasks for
// different users run concurrently. Queues are created on first
// dispatch and reclaimed after an idle period, so the goroutine count
// tracks the set of recently active users rather than all users ever
// seen.
type Dispatcher struct {
	mu       sync.Mutex
	queues   map[string]*userQueue
	idleTTL  time.Duration
	shutdown chan struct{}
	closed   bool
	logger   *logrus.Logger
}

type userQueue struct {
	tasks  []func()
	notify chan struct{}
}

// NewDispatcher creates a dispatcher with the default idle TTL.
func NewDispatcher(logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		queues:   make(map[string]*userQueue),
		idleTTL:  DefaultQueueIdleTTL,
		shutdown: make(chan struct{}),
		logger:   logger,
	}
}

// Dispatch enqueues task on the user's serial queue, creating the queue
// and its goroutine on first use. Tasks dispatched after Stop are
// dropped.
func (d *Dispatcher) Dispatch(userID string, task func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.WithFields(logrus.Fields{
			"user_id": userID,
		}).Warn("Dispatcher stopped, dropping task")
		return
	}

	q, ok := d.queues[userID]
	if !ok {
		q = &userQueue{notify: make(chan struct{}, 1)}
		d.queues[userID] = q
		activeUserQueues.Set(float64(len(d.queues)))
		go d.run(userID, q)
	}
	q.tasks = append(q.tasks, task)
	d.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// run drains one user's queue until it has been idle for the TTL.
func (d *Dispatcher) run(userID string, q *userQueue) {
	idle := time.NewTimer(d.idleTTL)
	defer idle.Stop()

	for {
		d.mu.Lock()
		var task func()
		if len(q.tasks) > 0 {
			task = q.tasks[0]
			q.tasks = q.tasks[1:]
		}
		d.mu.Unlock()

		if task != nil {
			task()
			continue
		}

		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(d.idleTTL)

		select {
		case <-q.notify:
		case <-d.shutdown:
			return
		case <-idle.C:
			d.mu.Lock()
			if len(q.tasks) == 0 {
				delete(d.queues, userID)
				activeUserQueues.Set(float64(len(d.queues)))
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
		}
	}
}

// Stop prevents further dispatches and releases the queue goroutines.
// In-flight tasks finish; queued tasks may be dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()
	close(d.shutdown)
}
