// Package wsserver implements the WebSocket relay endpoint.
package wsserver

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ossiavoice/relay-go/internal/ratelimit"
)

// Gorilla message type aliases, kept local so conn.go stays decoupled
// from the transport package.
const (
	textMessage = websocket.TextMessage
	pingMessage = websocket.PingMessage
)

// Server upgrades HTTP requests and runs the per-connection read loop.
type Server struct {
	router     *Router
	upgrader   websocket.Upgrader
	frameLimit ratelimit.Limit
	logger     *slog.Logger
}

// NewServer creates the WebSocket endpoint handler. frameLimit is the
// per-device token bucket applied to relayed frames.
func NewServer(router *Router, frameLimit ratelimit.Limit, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Devices and dashboards connect from arbitrary origins;
			// authentication happens in-band via the join frames.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		frameLimit: frameLimit,
		logger:     logger,
	}
}

// ServeHTTP implements http.Handler for GET /ws.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	c := newConn(ws, ratelimit.NewLimiter(s.frameLimit))
	ws.SetPongHandler(func(string) error {
		c.alive.Store(true)
		return nil
	})

	s.router.Register(c)
	defer func() {
		s.router.Unregister(c)
		ws.Close()
	}()

	ctx := r.Context()
	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read ended", "error", err, "remote_addr", r.RemoteAddr)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		s.router.HandleMessage(ctx, c, data)
	}
}
