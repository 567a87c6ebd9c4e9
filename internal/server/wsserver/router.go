// Package wsserver implements the WebSocket relay endpoint.
package wsserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ossiavoice/relay-go/internal/core/service"
	"github.com/ossiavoice/relay-go/internal/telemetry/metric"
)

// Router owns session membership and relays frames between peers.
//
// One mutex guards the whole membership table so joins, broadcasts and
// removals observe consistent state. Socket writes happen outside the
// lock.
type Router struct {
	devices *service.DeviceService
	owners  *service.OwnerService
	logger  *slog.Logger
	metrics *metric.Metrics

	mu       sync.Mutex
	sessions map[string]map[*Conn]struct{}
	conns    map[*Conn]struct{}
}

// NewRouter creates a session router.
func NewRouter(devices *service.DeviceService, owners *service.OwnerService, logger *slog.Logger, metrics *metric.Metrics) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		devices:  devices,
		owners:   owners,
		logger:   logger,
		metrics:  metrics,
		sessions: make(map[string]map[*Conn]struct{}),
		conns:    make(map[*Conn]struct{}),
	}
}

// Register adds a freshly upgraded connection in the unauthenticated
// state.
func (rt *Router) Register(c *Conn) {
	rt.mu.Lock()
	rt.conns[c] = struct{}{}
	rt.mu.Unlock()

	if rt.metrics != nil {
		rt.metrics.ConnectionsActive.WithLabelValues(RoleNone.String()).Inc()
	}
}

// Unregister removes a connection and garbage-collects its session if
// the membership set empties.
func (rt *Router) Unregister(c *Conn) {
	rt.mu.Lock()
	delete(rt.conns, c)
	role := c.role
	if c.sessionID != "" {
		if peers, ok := rt.sessions[c.sessionID]; ok {
			delete(peers, c)
			if len(peers) == 0 {
				delete(rt.sessions, c.sessionID)
			}
		}
	}
	sessionCount := len(rt.sessions)
	rt.mu.Unlock()

	if rt.metrics != nil {
		rt.metrics.ConnectionsActive.WithLabelValues(role.String()).Dec()
		rt.metrics.SessionsActive.Set(float64(sessionCount))
	}
}

// HandleMessage processes one inbound text frame. All failures are
// reported in-band and leave the connection open.
func (rt *Router) HandleMessage(ctx context.Context, c *Conn, data []byte) {
	if !validJSON(data) {
		c.sendJSON(newError(ErrCodeInvalidJSON))
		rt.dropFrame(ErrCodeInvalidJSON)
		return
	}

	// Non-object frames (arrays, strings) carry no type and fall
	// through to the relay path.
	var frame controlFrame
	json.Unmarshal(data, &frame)

	switch frame.Type {
	case TypeJoin:
		rt.joinDevice(ctx, c, &frame)
	case TypeJoinListener:
		rt.joinListener(ctx, c, &frame)
	default:
		rt.relay(c, data)
	}
}

// joinDevice authenticates device credentials and attaches the
// connection to the requested session.
func (rt *Router) joinDevice(ctx context.Context, c *Conn, frame *controlFrame) {
	if frame.SessionID == "" || frame.ParticipantID == "" || frame.DeviceID == "" || frame.DeviceSecret == "" {
		c.sendJSON(newError(ErrCodeInvalidJoin))
		return
	}

	device, err := rt.devices.Authenticate(ctx, frame.DeviceID, frame.DeviceSecret)
	if err != nil {
		c.sendJSON(newError(ErrCodeUnauth))
		return
	}

	rt.attach(c, RoleDevice, frame.SessionID, frame.ParticipantID)

	rt.logger.Info("device joined session",
		"session_id", frame.SessionID,
		"participant_id", frame.ParticipantID,
		"device_id", device.DeviceID,
	)
	c.sendJSON(newJoined(frame.SessionID))
}

// joinListener authenticates owner credentials and attaches the
// connection as a listener.
func (rt *Router) joinListener(ctx context.Context, c *Conn, frame *controlFrame) {
	if frame.SessionID == "" || frame.OwnerID == "" || frame.OwnerSecret == "" {
		c.sendJSON(newError(ErrCodeInvalidJoin))
		return
	}

	if err := rt.owners.Authenticate(ctx, frame.OwnerID, frame.OwnerSecret); err != nil {
		c.sendJSON(newError(ErrCodeUnauth))
		return
	}

	rt.attach(c, RoleListener, frame.SessionID, "")

	rt.logger.Info("listener joined session",
		"session_id", frame.SessionID,
		"owner_id", frame.OwnerID,
	)
	c.sendJSON(newJoined(frame.SessionID))
}

// attach moves a connection into a session, detaching it from any
// session a previous join placed it in. Sessions are created lazily.
func (rt *Router) attach(c *Conn, role Role, sessionID, participantID string) {
	rt.mu.Lock()
	oldRole := c.role
	if c.sessionID != "" && c.sessionID != sessionID {
		if peers, ok := rt.sessions[c.sessionID]; ok {
			delete(peers, c)
			if len(peers) == 0 {
				delete(rt.sessions, c.sessionID)
			}
		}
	}

	c.role = role
	c.sessionID = sessionID
	c.participantID = participantID

	peers, ok := rt.sessions[sessionID]
	if !ok {
		peers = make(map[*Conn]struct{})
		rt.sessions[sessionID] = peers
	}
	peers[c] = struct{}{}
	sessionCount := len(rt.sessions)
	rt.mu.Unlock()

	if rt.metrics != nil && oldRole != role {
		rt.metrics.ConnectionsActive.WithLabelValues(oldRole.String()).Dec()
		rt.metrics.ConnectionsActive.WithLabelValues(role.String()).Inc()
	}
	if rt.metrics != nil {
		rt.metrics.SessionsActive.Set(float64(sessionCount))
	}
}

// relay fans a device frame out to every other member of the sender's
// session. Listener frames are accepted and dropped; unjoined senders
// get not_joined.
func (rt *Router) relay(c *Conn, data []byte) {
	rt.mu.Lock()
	role := c.role
	sessionID := c.sessionID
	var peers []*Conn
	if role == RoleDevice {
		for peer := range rt.sessions[sessionID] {
			if peer != c {
				peers = append(peers, peer)
			}
		}
	}
	rt.mu.Unlock()

	switch role {
	case RoleNone:
		c.sendJSON(newError(ErrCodeNotJoined))
		rt.dropFrame(ErrCodeNotJoined)
		return
	case RoleListener:
		// Listeners are receive-only; their frames are ignored.
		return
	}

	if !c.limiter.Allow() {
		c.sendJSON(newError(ErrCodeRateLimited))
		rt.dropFrame(ErrCodeRateLimited)
		return
	}

	// Best effort: a slow or dead peer never blocks the sender, and a
	// failed write is the liveness sweeper's problem.
	for _, peer := range peers {
		if err := peer.sendRaw(data); err != nil {
			rt.dropFrame("write_failed")
		}
	}
	if rt.metrics != nil {
		rt.metrics.BroadcastsTotal.Inc()
	}
}

// sweep runs one liveness pass: unresponsive connections are
// terminated, the rest are marked stale and pinged.
func (rt *Router) sweep() {
	type sweepEntry struct {
		conn      *Conn
		role      Role
		sessionID string
	}

	rt.mu.Lock()
	conns := make([]sweepEntry, 0, len(rt.conns))
	for c := range rt.conns {
		conns = append(conns, sweepEntry{conn: c, role: c.role, sessionID: c.sessionID})
	}
	rt.mu.Unlock()

	for _, e := range conns {
		c := e.conn
		if !c.alive.Load() {
			c.terminate()
			if rt.metrics != nil {
				rt.metrics.LivenessEvictions.Inc()
			}
			rt.logger.Info("evicted unresponsive connection",
				"session_id", e.sessionID,
				"role", e.role.String(),
			)
			continue
		}
		c.alive.Store(false)
		c.ping()
	}
}

// SessionCount returns the number of live sessions.
func (rt *Router) SessionCount() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.sessions)
}

// ConnCount returns the number of registered connections.
func (rt *Router) ConnCount() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.conns)
}

func (rt *Router) dropFrame(reason string) {
	if rt.metrics != nil {
		rt.metrics.FramesDropped.WithLabelValues(reason).Inc()
	}
}
