// Package wsserver implements the WebSocket relay endpoint.
package wsserver

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Role is a connection's position in the join state machine.
type Role int

const (
	// RoleNone is the state before any successful join.
	RoleNone Role = iota

	// RoleDevice is a captioning device; its frames are relayed.
	RoleDevice

	// RoleListener is an owner-side observer; its frames are ignored.
	RoleListener
)

// String returns the metric label for the role.
func (r Role) String() string {
	switch r {
	case RoleDevice:
		return "device"
	case RoleListener:
		return "listener"
	default:
		return "unauthenticated"
	}
}

// socket is the subset of *websocket.Conn the relay writes through.
// Narrowed so tests can substitute an in-memory fake.
type socket interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

const writeTimeout = 10 * time.Second

// Conn is one relay connection.
//
// role, sessionID and participantID are guarded by the Router's mutex;
// they change only inside join handling.
type Conn struct {
	sock    socket
	writeMu sync.Mutex

	// limiter throttles relayed frames. Only device frames consume
	// tokens.
	limiter *rate.Limiter

	// alive is cleared by the liveness sweeper and set again by the
	// pong handler.
	alive atomic.Bool

	role          Role
	sessionID     string
	participantID string
}

func newConn(sock socket, limiter *rate.Limiter) *Conn {
	c := &Conn{sock: sock, limiter: limiter}
	c.alive.Store(true)
	return c
}

// sendJSON marshals v and writes it as a text message. Writes are
// serialized; gorilla connections permit a single concurrent writer.
func (c *Conn) sendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.sendRaw(data)
}

// sendRaw writes a text message verbatim.
func (c *Conn) sendRaw(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.sock.WriteMessage(textMessage, data)
}

// ping sends a control ping. WriteControl is safe concurrently with
// WriteMessage, so no write lock is taken.
func (c *Conn) ping() error {
	return c.sock.WriteControl(pingMessage, nil, time.Now().Add(writeTimeout))
}

// terminate force-closes the underlying socket. The read loop observes
// the close and unregisters the connection.
func (c *Conn) terminate() {
	c.sock.Close()
}
