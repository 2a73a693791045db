package wsframe

// FrameChannel is the duplex frame stream an established connection exposes.
// Reads are delivered on the Frames channel by a pump owned by the
// implementation; the channel closes when the remote closes, the local side
// closes, or a read fails. Writes may be called concurrently with reads; the
// implementation serializes them.
type FrameChannel interface {
	// Frames returns the inbound frame stream. It is lazy, unbounded and
	// non-restartable: once closed it stays closed.
	Frames() <-chan Frame

	// ReadErr reports the error that ended the inbound stream, if any.
	// Valid only after Frames has been closed. A clean remote close
	// returns nil.
	ReadErr() error

	// WriteFrame writes a single frame. Only OpBinary, OpText and OpPing
	// are valid outbound opcodes; close frames are sent via Close.
	WriteFrame(f Frame) error

	// Close shuts the connection down per the requested mode. Safe to
	// call more than once; subsequent calls are no-ops.
	Close(mode CloseMode) error
}
