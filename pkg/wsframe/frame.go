// Package wsframe defines the frame vocabulary shared between the transport
// layer and the connection manager: opcodes, the Frame unit itself, close
// modes, and the FrameChannel contract an established connection satisfies.
package wsframe

// Opcode identifies the kind of a WebSocket frame as seen by the manager.
type Opcode int

const (
	OpContinuation Opcode = iota
	OpText
	OpBinary
	OpPing
	OpPong
	OpClose
)

func (o Opcode) String() string {
	switch o {
	case OpContinuation:
		return "continuation"
	case OpText:
		return "text"
	case OpBinary:
		return "binary"
	case OpPing:
		return "ping"
	case OpPong:
		return "pong"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}

// Frame is one discrete unit of inbound or outbound traffic. Frames are
// transient: one per I/O operation, never retained after dispatch.
type Frame struct {
	Final   bool
	Opcode  Opcode
	Payload []byte
}

// CloseMode selects how the underlying socket is shut down.
type CloseMode int

const (
	// CloseGraceful sends a close control frame before dropping the socket.
	// This is the default, full bidirectional close.
	CloseGraceful CloseMode = iota
	// CloseImmediate drops the socket without a close handshake.
	CloseImmediate
)
