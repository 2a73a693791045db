package core

// EventKind tags an entry on the event stream.
type EventKind int

const (
	// EventMessage carries one decoded inbound message.
	EventMessage EventKind = iota
	// EventFinished is the terminal entry of a normally ended connection.
	EventFinished
	// EventError carries an error. A *DecodingError is informational and
	// the stream continues; any other error is terminal and the stream
	// closes right after it.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventFinished:
		return "finished"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one entry on the stream a consumer receives from Events().
type Event struct {
	Kind    EventKind
	Message any   // set when Kind == EventMessage
	Err     error // set when Kind == EventError
}
