package core

import "github.com/isaqueDaSilva/wshandler/pkg/wsframe"

// dispatchLoop consumes the inbound frame stream for the lifetime of the
// upgraded connection and routes each frame by opcode. The stream ending,
// for whatever reason, always converges on Disconnect so the socket is never
// left open behind a dead loop.
func (s *Service) dispatchLoop(ch wsframe.FrameChannel) {
	for f := range ch.Frames() {
		switch f.Opcode {
		case wsframe.OpBinary:
			s.decodeAndForward(f.Payload)
		case wsframe.OpPong:
			s.log.Debug("keepalive acknowledged", "size", len(f.Payload))
		case wsframe.OpClose:
			s.log.Info("close frame received", "reason", string(f.Payload))
			s.Disconnect(wsframe.CloseGraceful, nil)
		default:
			s.log.Debug("ignoring frame", "opcode", f.Opcode.String(), "size", len(f.Payload))
		}
	}

	if err := ch.ReadErr(); err != nil {
		s.log.Error("inbound stream failed", "error", err)
		s.Disconnect(wsframe.CloseImmediate, &UnknownError{Cause: err})
		return
	}
	s.Disconnect(wsframe.CloseGraceful, nil)
}

// decodeAndForward hands a binary payload to the decode collaborator and
// forwards the result to the event stream in arrival order. A payload that
// fails to decode produces one informational DecodingFailed event; the loop
// and the connection carry on.
func (s *Service) decodeAndForward(payload []byte) {
	msg, err := s.decode(payload)
	if err != nil {
		s.log.Warn("payload failed to decode", "size", len(payload), "error", err)
		s.sink.emit(Event{Kind: EventError, Err: &DecodingError{Cause: err}})
		return
	}
	s.sink.emit(Event{Kind: EventMessage, Message: msg})
}
