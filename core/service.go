// Package core manages the lifetime of one client-side WebSocket connection:
// negotiating the upgrade, streaming decoded inbound messages to a single
// consumer, issuing keepalive pings, and tearing the connection down cleanly
// from any state.
package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/isaqueDaSilva/wshandler/pkg/wsframe"
	"github.com/isaqueDaSilva/wshandler/pool"
	wstransport "github.com/isaqueDaSilva/wshandler/transport/websocket"
)

// State is the lifecycle position of a Service.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateUpgraded   State = "upgraded"
	StateClosing    State = "closing"
	StateClosed     State = "closed"
)

// pingPayload is the fixed body carried by keepalive pings.
var pingPayload = []byte("keepalive")

type negotiateFunc func(ctx context.Context, ep wstransport.Endpoint) (wstransport.Handle, error)

// Service owns a single connection attempt. It is safe for concurrent use:
// the dispatch loop and public operations share the connection handle under
// one lock, and state transitions happen only in setState.
//
// A Service is single-shot: once closed it stays closed. Reconnection is the
// caller's concern.
type Service struct {
	cfg       Config
	log       *slog.Logger
	encode    EncodeFunc
	decode    DecodeFunc
	workers   *pool.Pool
	negotiate negotiateFunc
	sink      *eventSink

	mu     sync.RWMutex
	state  State
	handle wsframe.FrameChannel // non-nil iff established; the write half is derived from it
}

// Option tweaks a Service at construction.
type Option func(*Service)

// WithCodec replaces the JSON default encode/decode collaborators.
func WithCodec(enc EncodeFunc, dec DecodeFunc) Option {
	return func(s *Service) {
		if enc != nil {
			s.encode = enc
		}
		if dec != nil {
			s.decode = dec
		}
	}
}

// WithPool schedules the dispatch loop on p instead of the shared default
// pool.
func WithPool(p *pool.Pool) Option {
	return func(s *Service) { s.workers = p }
}

// withNegotiator swaps the upgrade negotiator. Used by tests.
func withNegotiator(n negotiateFunc) Option {
	return func(s *Service) { s.negotiate = n }
}

// NewService builds a service for one connection to cfg's endpoint.
func NewService(cfg Config, log *slog.Logger, opts ...Option) (*Service, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:       cfg,
		log:       log,
		encode:    JSONEncode,
		decode:    JSONDecode,
		workers:   pool.Default(),
		negotiate: wstransport.Negotiate,
		sink:      newEventSink(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Events returns the ordered stream of decoded messages. Zero or more
// messages are followed by exactly one terminal event (EventFinished, or a
// terminal EventError), after which the channel closes. Single consumer.
func (s *Service) Events() <-chan Event { return s.sink.events() }

// GetState reports the current lifecycle state.
func (s *Service) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Start negotiates the upgrade and, once established, writes initialMessage
// as one binary frame before any inbound frame is processed, then launches
// the dispatch loop. A nil initialMessage skips the initial write.
//
// A declined upgrade is not an error: Start returns nil, the state goes to
// Closed and the event stream finishes with zero messages. Only connect and
// handshake transport faults are returned to the caller.
func (s *Service) Start(ctx context.Context, initialMessage any) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.setStateLocked(StateConnecting)
	s.mu.Unlock()

	handle, err := s.negotiate(ctx, s.cfg.endpoint())
	if err != nil {
		werr := &UnknownError{Cause: err}
		s.closeFromConnecting()
		s.sink.finish(Event{Kind: EventError, Err: werr})
		return werr
	}
	if !handle.Established() {
		s.log.Warn("upgrade declined", "host", s.cfg.Host, "status", handle.Status)
		s.closeFromConnecting()
		s.sink.finish(Event{Kind: EventFinished})
		return nil
	}

	ch := handle.Channel
	s.mu.Lock()
	if s.state != StateConnecting {
		// Disconnected while the negotiation was in flight; the terminal
		// event was already emitted.
		s.mu.Unlock()
		_ = ch.Close(wsframe.CloseImmediate)
		return nil
	}
	s.handle = ch
	s.setStateLocked(StateUpgraded)
	s.mu.Unlock()

	if initialMessage != nil {
		payload, err := s.encode(initialMessage)
		if err != nil {
			werr := &UnknownError{Cause: err}
			s.Disconnect(wsframe.CloseGraceful, werr)
			return werr
		}
		if err := ch.WriteFrame(wsframe.Frame{Final: true, Opcode: wsframe.OpBinary, Payload: payload}); err != nil {
			werr := &UnknownError{Cause: err}
			s.Disconnect(wsframe.CloseGraceful, werr)
			return werr
		}
	}

	s.workers.Go(func() { s.dispatchLoop(ch) })
	return nil
}

// Send writes payload as one final binary frame. It requires an established
// connection and never retries or buffers: without one it returns
// ErrNoConnection, and a failed write tears the connection down with the
// failure as the stream's terminal event.
func (s *Service) Send(payload []byte) error {
	return s.writeFrame(wsframe.Frame{Final: true, Opcode: wsframe.OpBinary, Payload: payload})
}

// SendPing writes one keepalive ping frame. Same state requirements and
// failure handling as Send.
func (s *Service) SendPing() error {
	return s.writeFrame(wsframe.Frame{Final: true, Opcode: wsframe.OpPing, Payload: pingPayload})
}

func (s *Service) writeFrame(f wsframe.Frame) error {
	ch := s.writer()
	if ch == nil {
		return ErrNoConnection
	}
	if err := ch.WriteFrame(f); err != nil {
		s.log.Error("write failed", "opcode", f.Opcode, "error", err)
		werr := &UnknownError{Cause: err}
		s.Disconnect(wsframe.CloseGraceful, werr)
		return werr
	}
	return nil
}

// writer is the outbound half of the connection handle. It is absent the
// instant teardown begins; absent means not connected.
func (s *Service) writer() wsframe.FrameChannel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateUpgraded {
		return nil
	}
	return s.handle
}

// Disconnect tears the connection down and emits the terminal event:
// override when non-nil, otherwise the close failure (wrapped), otherwise a
// plain EventFinished. Local state is released even when the socket close
// fails. Calling Disconnect on an idle or already closed service is a no-op,
// and so is calling it while another teardown is in flight: the teardown
// that moved the state to Closing owns the terminal event. Without that
// guard the dispatch loop, whose stream ends mid-close, could race a failed
// write's Disconnect and replace its terminal error with a plain finish.
func (s *Service) Disconnect(mode wsframe.CloseMode, override error) {
	s.mu.Lock()
	if s.state != StateConnecting && s.state != StateUpgraded {
		s.mu.Unlock()
		return
	}
	ch := s.handle
	s.handle = nil
	s.setStateLocked(StateClosing)
	s.mu.Unlock()

	var closeErr error
	if ch != nil {
		closeErr = ch.Close(mode)
		if closeErr != nil {
			s.log.Error("socket close failed", "error", closeErr)
		}
	}

	s.mu.Lock()
	s.setStateLocked(StateClosed)
	s.mu.Unlock()

	switch {
	case override != nil:
		s.sink.finish(Event{Kind: EventError, Err: override})
	case closeErr != nil:
		s.sink.finish(Event{Kind: EventError, Err: &UnknownError{Cause: closeErr}})
	default:
		s.sink.finish(Event{Kind: EventFinished})
	}
}

// closeFromConnecting moves a never-established attempt straight to Closed.
func (s *Service) closeFromConnecting() {
	s.mu.Lock()
	if s.state == StateConnecting {
		s.setStateLocked(StateClosed)
	}
	s.mu.Unlock()
}

// setStateLocked is the single place the state changes. Callers hold s.mu.
func (s *Service) setStateLocked(next State) {
	if s.state == next {
		return
	}
	s.log.Info("state changed", "from", s.state, "to", next)
	s.state = next
}
