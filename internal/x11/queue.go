package x11

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// ErrQueueClosed is returned by blocking reads once the connection is gone.
var ErrQueueClosed = errors.New("x11 event queue closed")

// EventSource is the part of *xgb.Conn the queue reads from.
type EventSource interface {
	WaitForEvent() (xgb.Event, xgb.Error)
	PollForEvent() (xgb.Event, xgb.Error)
}

// ErrorHandler receives asynchronous X errors found while reading events.
type ErrorHandler func(xgb.Error)

// EventQueue is the ordered per-display queue of pending events. Reads are
// taken from the head in arrival order; PushFront is the only operation that
// inserts anywhere but the tail.
//
// An EventQueue is not safe for concurrent use.
type EventQueue struct {
	src     EventSource
	pending []xgbutil.EventOrError
	onError ErrorHandler
	closed  bool

	// inflight carries the result of a background WaitForEvent started by
	// Wait. While it is set, nothing else reads from src.
	inflight chan sourceRead
}

type sourceRead struct {
	ev  xgb.Event
	err xgb.Error
}

// NewEventQueue returns a queue reading from src. A nil handler logs errors
// through slog.Default.
func NewEventQueue(src EventSource, onError ErrorHandler) *EventQueue {
	if onError == nil {
		onError = func(err xgb.Error) {
			slog.Default().Warn("asynchronous X error", "error", err)
		}
	}
	return &EventQueue{src: src, onError: onError}
}

// Len returns the number of events currently held by the queue, without
// reading from the connection.
func (q *EventQueue) Len() int {
	return len(q.pending)
}

// Peek returns a copy of the queued events in order.
func (q *EventQueue) Peek() []xgb.Event {
	out := make([]xgb.Event, len(q.pending))
	for i, everr := range q.pending {
		out[i] = everr.Event
	}
	return out
}

// Push appends ev at the tail.
func (q *EventQueue) Push(ev xgb.Event) {
	q.pending = append(q.pending, xgbutil.EventOrError{Event: ev})
}

// PushFront re-inserts events at the head. evs[0] becomes the new head and
// the relative order of evs is kept.
func (q *EventQueue) PushFront(evs ...xgb.Event) {
	if len(evs) == 0 {
		return
	}
	head := make([]xgbutil.EventOrError, 0, len(evs)+len(q.pending))
	for _, ev := range evs {
		head = append(head, xgbutil.EventOrError{Event: ev})
	}
	q.pending = append(head, q.pending...)
}

// Take removes and returns the first queued event accepted by match. It
// never blocks: anything the connection has already buffered is read first.
func (q *EventQueue) Take(match func(xgb.Event) bool) (xgb.Event, bool) {
	q.pull()
	return q.remove(match)
}

// TakeWindow takes the next event reported to win. ClientMessage events are
// excluded because X delivers them regardless of the selected input mask.
func (q *EventQueue) TakeWindow(win xproto.Window) (xgb.Event, bool) {
	return q.Take(func(ev xgb.Event) bool {
		if EventType(ev) == xproto.ClientMessage {
			return false
		}
		w, ok := EventWindow(ev)
		return ok && w == win
	})
}

// TakeType takes the next event of the given core event code, whatever
// window it belongs to.
func (q *EventQueue) TakeType(typ int) (xgb.Event, bool) {
	return q.Take(func(ev xgb.Event) bool {
		return EventType(ev) == typ
	})
}

// TakeTypedWindow takes the next event of the given type reported to win.
func (q *EventQueue) TakeTypedWindow(typ int, win xproto.Window) (xgb.Event, bool) {
	return q.Take(func(ev xgb.Event) bool {
		if EventType(ev) != typ {
			return false
		}
		w, ok := EventWindow(ev)
		return ok && w == win
	})
}

// Wait blocks until an event accepted by match is available and takes it.
// Non-matching events read meanwhile stay queued. The wait ends with
// ctx.Err() when ctx is done and with ErrQueueClosed when the connection
// goes away. A read still outstanding when ctx ends is delivered to the
// queue by a later read, so no event is lost.
func (q *EventQueue) Wait(ctx context.Context, match func(xgb.Event) bool) (xgb.Event, error) {
	done := ctx.Done()
	for {
		if ev, ok := q.Take(match); ok {
			return ev, nil
		}
		if q.closed {
			return nil, ErrQueueClosed
		}
		select {
		case <-done:
			return nil, ctx.Err()
		case r := <-q.read():
			q.inflight = nil
			if !q.accept(r.ev, r.err) {
				continue
			}
			if match(r.ev) {
				return r.ev, nil
			}
			q.pending = append(q.pending, xgbutil.EventOrError{Event: r.ev})
		}
	}
}

// read starts a blocking read of src unless one is already outstanding.
// (*xgb.Conn).PollForEvent cannot tell an empty queue from a closed
// connection, so only WaitForEvent can observe closure.
func (q *EventQueue) read() <-chan sourceRead {
	if q.inflight == nil {
		ch := make(chan sourceRead, 1)
		q.inflight = ch
		src := q.src
		go func() {
			ev, err := src.WaitForEvent()
			ch <- sourceRead{ev: ev, err: err}
		}()
	}
	return q.inflight
}

// pull moves everything the source has buffered into the queue.
func (q *EventQueue) pull() {
	if q.closed {
		return
	}
	if q.inflight != nil {
		select {
		case r := <-q.inflight:
			q.inflight = nil
			if q.accept(r.ev, r.err) {
				q.pending = append(q.pending, xgbutil.EventOrError{Event: r.ev})
			}
			if q.closed {
				return
			}
		default:
			// Polling now could overtake the outstanding read.
			return
		}
	}
	for {
		ev, err := q.src.PollForEvent()
		if ev == nil && err == nil {
			return
		}
		if q.accept(ev, err) {
			q.pending = append(q.pending, xgbutil.EventOrError{Event: ev})
		}
	}
}

// accept reports whether a read produced an event to queue. Errors go to
// the handler; a read with neither marks the queue closed.
func (q *EventQueue) accept(ev xgb.Event, err xgb.Error) bool {
	switch {
	case err != nil:
		q.onError(err)
		return false
	case ev == nil:
		q.closed = true
		return false
	}
	return true
}

func (q *EventQueue) remove(match func(xgb.Event) bool) (xgb.Event, bool) {
	for i, everr := range q.pending {
		if match(everr.Event) {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return everr.Event, true
		}
	}
	return nil, false
}
