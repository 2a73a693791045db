// Package websocket performs the HTTP-to-WebSocket upgrade handshake and
// wraps the resulting connection into the frame channel the connection
// manager consumes.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/isaqueDaSilva/wshandler/pkg/wsframe"
)

const contentType = "application/vnd.api+json"

// Handle is the resolved result of a negotiation attempt: either an
// established frame channel, or a declined upgrade.
type Handle struct {
	// Channel is non-nil only when the remote accepted the upgrade.
	Channel wsframe.FrameChannel
	// Status is the HTTP status of the handshake response, when one was
	// received.
	Status int
}

// Established reports whether the remote accepted the WebSocket upgrade.
func (h Handle) Established() bool { return h.Channel != nil }

// Negotiate opens a TCP connection to the endpoint and issues the upgrade
// request. A remote that declines the upgrade (any non-101 response) yields
// a NotUpgraded handle and a nil error; only a failure to reach the remote
// or to complete the handshake exchange is an error.
func Negotiate(ctx context.Context, ep Endpoint) (Handle, error) {
	header := http.Header{}
	header.Set("Content-Type", contentType)
	if ep.Authorization != "" {
		header.Set("Authorization", ep.Authorization)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, ep.URL(), header)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
			resp.Body.Close()
			return Handle{Status: resp.StatusCode}, nil
		}
		return Handle{}, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return Handle{Channel: newFrameConn(conn), Status: resp.StatusCode}, nil
}
