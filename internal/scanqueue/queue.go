package scanqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/logging"
)

// Task is one unit of serialized work.
type Task func(ctx context.Context) error

// Ticket tracks one submitted task.
type Ticket struct {
	ID    string
	Label string

	done chan struct{}
	err  error
}

func newTicket(label string) *Ticket {
	return &Ticket{ID: uuid.NewString(), Label: label, done: make(chan struct{})}
}

func (t *Ticket) settle(err error) {
	t.err = err
	close(t.done)
}

// Done returns a channel closed once the task has settled.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Err returns the task's result. It is nil until Done is closed.
func (t *Ticket) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task settles and returns its result, or returns
// ctx.Err() if ctx is done first. The task itself keeps running.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type job struct {
	ticket *Ticket
	task   Task
}

// Queue is a FIFO queue drained by a single worker goroutine.
// All methods are safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	pending []job
	running bool
	closed  bool

	wake    chan struct{}
	stopped chan struct{}
	ctx     context.Context

	bus    *event.Bus
	logger *logging.Logger
}

// New creates a Queue and starts its worker. A nil bus disables events and
// a nil logger discards logs.
func New(bus *event.Bus, logger *logging.Logger) *Queue {
	q := &Queue{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		ctx:     context.Background(),
		bus:     bus,
		logger:  logging.OrNop(logger).WithComponent("scanqueue"),
	}
	go q.run()
	return q
}

// Enqueue appends task to the queue and returns its ticket. After Close the
// returned ticket is already settled with errors.ErrQueueClosed.
func (q *Queue) Enqueue(label string, task Task) *Ticket {
	ticket := newTicket(label)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		ticket.settle(errors.ErrQueueClosed)
		return ticket
	}
	q.pending = append(q.pending, job{ticket: ticket, task: task})
	depth := q.depthLocked()
	q.mu.Unlock()

	q.logger.Debug("scan queued", "ticket", ticket.ID, "label", label, "depth", depth)
	q.bus.Publish(event.NewScanQueuedEvent(ticket.ID, label, depth))

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return ticket
}

// Depth returns the number of tasks waiting or running.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.depthLocked()
}

func (q *Queue) depthLocked() int {
	n := len(q.pending)
	if q.running {
		n++
	}
	return n
}

// Close stops accepting tasks and waits for the worker to finish the tasks
// already queued. It returns ctx.Err() if ctx is done first; the worker then
// keeps draining in the background. Close is idempotent.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	q.mu.Unlock()

	select {
	case <-q.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		next := q.pending[0]
		q.pending[0] = job{}
		q.pending = q.pending[1:]
		q.running = true
		q.mu.Unlock()

		q.execute(next)
	}
}

func (q *Queue) execute(j job) {
	id, label := j.ticket.ID, j.ticket.Label
	q.bus.Publish(event.NewScanStartedEvent(id, label))

	start := time.Now()
	err := q.call(j)
	elapsed := time.Since(start)

	q.mu.Lock()
	q.running = false
	remaining := len(q.pending)
	q.mu.Unlock()

	if err != nil {
		q.logger.Warn("scan task failed", "ticket", id, "label", label, "error", err.Error())
	} else {
		q.logger.Debug("scan task finished", "ticket", id, "label", label, "duration_ms", elapsed.Milliseconds())
	}

	j.ticket.settle(err)
	q.bus.Publish(event.NewScanFinishedEvent(id, label, err, elapsed, remaining))
}

// call runs the task, converting a panic into an error.
func (q *Queue) call(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan task %q panicked: %v", j.ticket.Label, r)
		}
	}()
	return j.task(q.ctx)
}
