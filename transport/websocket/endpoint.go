package websocket

import (
	"errors"
	"net"
	"net/url"
	"strconv"
)

// ErrConnectionFailed is returned when the TCP connection or the HTTP
// handshake cannot be carried out at all. A declined upgrade is not a
// connection failure; see Negotiate.
var ErrConnectionFailed = errors.New("connection failed")

// Endpoint describes the remote peer for one connection attempt. It is
// immutable for the lifetime of the attempt.
type Endpoint struct {
	Host          string
	Port          int
	Path          string
	Authorization string
}

// URL renders the websocket URL for the endpoint.
func (e Endpoint) URL() string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(e.Host, strconv.Itoa(e.Port)),
		Path:   e.Path,
	}
	return u.String()
}
