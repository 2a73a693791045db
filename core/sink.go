package core

import (
	"sync"

	"github.com/eapache/queue"
)

// eventSink is the single-producer-discipline, single-consumer ordered
// stream of decoded messages and the one terminal event per connection
// attempt. Entries buffer in an unbounded FIFO drained by a forwarder
// goroutine, so emitting never blocks the dispatch loop on a slow consumer.
type eventSink struct {
	mu   sync.Mutex
	buf  *queue.Queue
	done bool

	forwardOnce sync.Once
	wake        chan struct{}
	out         chan Event
}

func newEventSink() *eventSink {
	return &eventSink{
		buf:  queue.New(),
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
	}
}

// events is the consumer-facing channel. It closes after the terminal event
// has been delivered.
func (s *eventSink) events() <-chan Event { return s.out }

// emit enqueues a non-terminal event. Events arriving after the terminal
// one are dropped, keeping the terminal event last.
func (s *eventSink) emit(ev Event) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.buf.Add(ev)
	s.mu.Unlock()
	s.signal()
}

// finish enqueues the terminal event. Only the first call has effect.
func (s *eventSink) finish(ev Event) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.buf.Add(ev)
	s.mu.Unlock()
	s.signal()
}

// signal wakes the forwarder, starting it on first use so a sink that never
// carries an event never owns a goroutine.
func (s *eventSink) signal() {
	s.forwardOnce.Do(func() { go s.forward() })
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *eventSink) forward() {
	defer close(s.out)
	for range s.wake {
		for {
			s.mu.Lock()
			if s.buf.Length() == 0 {
				drained := s.done
				s.mu.Unlock()
				if drained {
					return
				}
				break
			}
			ev := s.buf.Remove().(Event)
			s.mu.Unlock()
			s.out <- ev
		}
	}
}
