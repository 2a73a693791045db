package websocket

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/isaqueDaSilva/wshandler/pkg/wsframe"
)

// frameBuffer bounds the inbound channel so a briefly slow consumer does not
// stall the read pump.
const frameBuffer = 100

// closeGrace is the write deadline for the outgoing close control frame.
const closeGrace = time.Second

// frameConn adapts a *websocket.Conn to the wsframe.FrameChannel contract.
// A single readPump goroutine owns all reads; writes are serialized by a
// mutex and may come from any goroutine.
type frameConn struct {
	conn   *websocket.Conn
	frames chan wsframe.Frame
	done   chan struct{} // closed by Close; releases a pump stuck on a full buffer

	writeMu sync.Mutex
	closed  bool

	// readErr is written by the pump before it closes frames; the channel
	// close orders it for readers.
	readErr error
}

var _ wsframe.FrameChannel = (*frameConn)(nil)

func newFrameConn(conn *websocket.Conn) *frameConn {
	c := &frameConn{
		conn:   conn,
		frames: make(chan wsframe.Frame, frameBuffer),
		done:   make(chan struct{}),
	}
	conn.SetPongHandler(func(appData string) error {
		if !c.deliver(wsframe.Frame{Final: true, Opcode: wsframe.OpPong, Payload: []byte(appData)}) {
			return net.ErrClosed
		}
		return nil
	})
	go c.readPump()
	return c
}

// deliver hands a frame to the consumer, giving up when the channel has been
// closed locally. Without the done case a consumer that stopped reading
// (a discarded handle) would pin the pump forever once the buffer fills.
func (c *frameConn) deliver(f wsframe.Frame) bool {
	select {
	case c.frames <- f:
		return true
	case <-c.done:
		return false
	}
}

func (c *frameConn) Frames() <-chan wsframe.Frame { return c.frames }

func (c *frameConn) ReadErr() error { return c.readErr }

func (c *frameConn) readPump() {
	defer close(c.frames)
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			switch {
			case errors.As(err, &ce):
				c.deliver(wsframe.Frame{Final: true, Opcode: wsframe.OpClose, Payload: []byte(ce.Text)})
			case errors.Is(err, net.ErrClosed) || c.isClosed():
				// Local close; the stream ends cleanly.
			default:
				c.readErr = err
			}
			return
		}
		if !c.deliver(wsframe.Frame{Final: true, Opcode: opcodeOf(msgType), Payload: data}) {
			return
		}
	}
}

func opcodeOf(msgType int) wsframe.Opcode {
	switch msgType {
	case websocket.TextMessage:
		return wsframe.OpText
	case websocket.BinaryMessage:
		return wsframe.OpBinary
	default:
		return wsframe.OpContinuation
	}
}

func (c *frameConn) WriteFrame(f wsframe.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return net.ErrClosed
	}
	switch f.Opcode {
	case wsframe.OpBinary:
		return c.conn.WriteMessage(websocket.BinaryMessage, f.Payload)
	case wsframe.OpText:
		return c.conn.WriteMessage(websocket.TextMessage, f.Payload)
	case wsframe.OpPing:
		return c.conn.WriteControl(websocket.PingMessage, f.Payload, time.Time{})
	default:
		return fmt.Errorf("opcode %s is not writable", f.Opcode)
	}
}

func (c *frameConn) Close(mode wsframe.CloseMode) error {
	c.writeMu.Lock()
	if c.closed {
		c.writeMu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	if mode == wsframe.CloseGraceful {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		// Best effort: a peer that already dropped the socket makes this
		// write fail, and the socket close below still runs.
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	}
	c.writeMu.Unlock()

	return c.conn.Close()
}

func (c *frameConn) isClosed() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.closed
}
