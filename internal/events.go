package internal

import "github.com/eapache/queue"

type eventKind uint8

const (
	eventEnd eventKind = iota
	eventError
)

func (k eventKind) String() string {
	if k == eventError {
		return "error"
	}
	return "end"
}

// event is a body lifecycle notification. err is set for eventError.
type event struct {
	kind eventKind
	err  error
}

// eventQueue buffers events until a listener subscribes and then delivers
// them in emission order. Delivery never re-enters: an event emitted from
// inside the listener is queued and handled after the current one returns.
// A request is driven by one goroutine at a time, so there is no locking.
type eventQueue struct {
	pending  *queue.Queue
	listener func(event)
	draining bool
}

func newEventQueue() *eventQueue {
	return &eventQueue{pending: queue.New()}
}

func (q *eventQueue) emit(ev event) {
	q.pending.Add(ev)
	q.drain()
}

// subscribe replaces the listener and flushes anything already pending.
func (q *eventQueue) subscribe(fn func(event)) {
	q.listener = fn
	q.drain()
}

func (q *eventQueue) drain() {
	if q.listener == nil || q.draining {
		return
	}
	q.draining = true
	defer func() { q.draining = false }()

	for q.pending.Length() > 0 {
		ev := q.pending.Remove().(event)
		q.listener(ev)
	}
}
