package wsserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ossiavoice/relay-go/internal/core/service"
	"github.com/ossiavoice/relay-go/internal/ratelimit"
	"github.com/ossiavoice/relay-go/internal/storage/memory"
)

type fakeSocket struct {
	mu     sync.Mutex
	frames [][]byte
	pings  int
	closed bool
}

func (f *fakeSocket) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeSocket) WriteControl(messageType int, _ []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if messageType == pingMessage {
		f.pings++
	}
	return nil
}

func (f *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeSocket) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSocket) lastFrame(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		t.Fatal("no frames written")
	}
	var decoded map[string]any
	if err := json.Unmarshal(f.frames[len(f.frames)-1], &decoded); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}
	return decoded
}

func (f *fakeSocket) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

type testRig struct {
	router  *Router
	owners  *service.OwnerService
	devices *service.DeviceService

	ownerID     string
	ownerSecret string
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	owners := service.NewOwnerService(memory.NewOwnerStore(), logger)
	devices := service.NewDeviceService(memory.NewDeviceStore(), owners, logger)
	router := NewRouter(devices, owners, logger, nil)

	reg, err := owners.Register(context.Background())
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	return &testRig{
		router:      router,
		owners:      owners,
		devices:     devices,
		ownerID:     reg.OwnerID,
		ownerSecret: reg.Secret,
	}
}

func (r *testRig) mintDevice(t *testing.T, participantID string) (deviceID, secret string) {
	t.Helper()
	resp, err := r.devices.Mint(context.Background(), participantID, r.ownerID, participantID)
	if err != nil {
		t.Fatalf("mint device: %v", err)
	}
	return resp.DeviceID, resp.Secret
}

// testLimit is generous so only the rate limit tests exhaust it.
var testLimit = ratelimit.Limit{Capacity: 100, RefillPer: 100}

func (r *testRig) connect(t *testing.T) (*Conn, *fakeSocket) {
	t.Helper()
	sock := &fakeSocket{}
	c := newConn(sock, ratelimit.NewLimiter(testLimit))
	r.router.Register(c)
	return c, sock
}

func (r *testRig) send(c *Conn, v any) {
	data, _ := json.Marshal(v)
	r.router.HandleMessage(context.Background(), c, data)
}

func (r *testRig) joinDevice(t *testing.T, c *Conn, sock *fakeSocket, sessionID, participantID string) {
	t.Helper()
	deviceID, secret := r.mintDevice(t, participantID)
	r.send(c, map[string]string{
		"type":          TypeJoin,
		"sessionId":     sessionID,
		"participantId": participantID,
		"deviceId":      deviceID,
		"deviceSecret":  secret,
	})
	frame := sock.lastFrame(t)
	if frame["type"] != TypeJoined || frame["sessionId"] != sessionID {
		t.Fatalf("join ack = %v", frame)
	}
}

func TestDeviceJoinAndBroadcast(t *testing.T) {
	rig := newTestRig(t)

	sender, senderSock := rig.connect(t)
	receiver, receiverSock := rig.connect(t)
	rig.joinDevice(t, sender, senderSock, "sess-1", "alice")
	rig.joinDevice(t, receiver, receiverSock, "sess-1", "bob")

	if got := rig.router.SessionCount(); got != 1 {
		t.Fatalf("sessions = %d, want 1", got)
	}

	before := senderSock.frameCount()
	rig.send(sender, map[string]any{"type": "caption", "text": "hello"})

	frame := receiverSock.lastFrame(t)
	if frame["type"] != "caption" || frame["text"] != "hello" {
		t.Errorf("relayed frame = %v", frame)
	}
	if senderSock.frameCount() != before {
		t.Error("sender received its own frame")
	}
}

func TestBroadcastScopedToSession(t *testing.T) {
	rig := newTestRig(t)

	sender, senderSock := rig.connect(t)
	other, otherSock := rig.connect(t)
	rig.joinDevice(t, sender, senderSock, "sess-1", "alice")
	rig.joinDevice(t, other, otherSock, "sess-2", "carol")

	before := otherSock.frameCount()
	rig.send(sender, map[string]any{"type": "caption", "text": "hi"})

	if otherSock.frameCount() != before {
		t.Error("frame leaked across sessions")
	}
}

func TestListenerReceivesButIsIgnored(t *testing.T) {
	rig := newTestRig(t)

	device, deviceSock := rig.connect(t)
	rig.joinDevice(t, device, deviceSock, "sess-1", "alice")

	listener, listenerSock := rig.connect(t)
	rig.send(listener, map[string]string{
		"type":        TypeJoinListener,
		"sessionId":   "sess-1",
		"ownerId":     rig.ownerID,
		"ownerSecret": rig.ownerSecret,
	})
	if frame := listenerSock.lastFrame(t); frame["type"] != TypeJoined {
		t.Fatalf("listener join ack = %v", frame)
	}

	// Device frames reach the listener.
	rig.send(device, map[string]any{"type": "caption", "text": "hi"})
	if frame := listenerSock.lastFrame(t); frame["text"] != "hi" {
		t.Errorf("listener frame = %v", frame)
	}

	// Listener frames go nowhere and produce no error.
	deviceBefore := deviceSock.frameCount()
	listenerBefore := listenerSock.frameCount()
	rig.send(listener, map[string]any{"type": "caption", "text": "spoof"})
	if deviceSock.frameCount() != deviceBefore {
		t.Error("listener frame was relayed")
	}
	if listenerSock.frameCount() != listenerBefore {
		t.Error("listener frame drew a response")
	}
}

func TestJoinFailures(t *testing.T) {
	rig := newTestRig(t)
	deviceID, secret := rig.mintDevice(t, "alice")

	tests := []struct {
		name     string
		frame    map[string]string
		wireCode string
	}{
		{
			name: "missing session",
			frame: map[string]string{
				"type": TypeJoin, "participantId": "alice",
				"deviceId": deviceID, "deviceSecret": secret,
			},
			wireCode: ErrCodeInvalidJoin,
		},
		{
			name: "wrong device secret",
			frame: map[string]string{
				"type": TypeJoin, "sessionId": "s", "participantId": "alice",
				"deviceId": deviceID, "deviceSecret": "wrong",
			},
			wireCode: ErrCodeUnauth,
		},
		{
			name: "unknown device",
			frame: map[string]string{
				"type": TypeJoin, "sessionId": "s", "participantId": "alice",
				"deviceId": "dev-nope", "deviceSecret": secret,
			},
			wireCode: ErrCodeUnauth,
		},
		{
			name: "listener missing owner",
			frame: map[string]string{
				"type": TypeJoinListener, "sessionId": "s", "ownerSecret": rig.ownerSecret,
			},
			wireCode: ErrCodeInvalidJoin,
		},
		{
			name: "listener wrong secret",
			frame: map[string]string{
				"type": TypeJoinListener, "sessionId": "s",
				"ownerId": rig.ownerID, "ownerSecret": "wrong",
			},
			wireCode: ErrCodeUnauth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sock := rig.connect(t)
			rig.send(c, tt.frame)
			if frame := sock.lastFrame(t); frame["error"] != tt.wireCode {
				t.Errorf("error = %v, want %s", frame["error"], tt.wireCode)
			}
			if sock.closed {
				t.Error("connection was closed on a lenient error")
			}
		})
	}

	if got := rig.router.SessionCount(); got != 0 {
		t.Errorf("failed joins created %d sessions", got)
	}
}

func TestNotJoinedAndInvalidJSON(t *testing.T) {
	rig := newTestRig(t)
	c, sock := rig.connect(t)

	rig.send(c, map[string]any{"type": "caption", "text": "hi"})
	if frame := sock.lastFrame(t); frame["error"] != ErrCodeNotJoined {
		t.Errorf("error = %v, want %s", frame["error"], ErrCodeNotJoined)
	}

	rig.router.HandleMessage(context.Background(), c, []byte("{broken"))
	if frame := sock.lastFrame(t); frame["error"] != ErrCodeInvalidJSON {
		t.Errorf("error = %v, want %s", frame["error"], ErrCodeInvalidJSON)
	}
}

func TestDeviceFrameRateLimit(t *testing.T) {
	rig := newTestRig(t)

	sender := func() (*Conn, *fakeSocket) {
		sock := &fakeSocket{}
		c := newConn(sock, ratelimit.NewLimiter(ratelimit.Limit{Capacity: 2, RefillPer: 0.001}))
		rig.router.Register(c)
		return c, sock
	}

	c, sock := sender()
	rig.joinDevice(t, c, sock, "sess-1", "alice")

	for i := 0; i < 2; i++ {
		rig.send(c, map[string]any{"type": "caption", "n": i})
	}
	rig.send(c, map[string]any{"type": "caption", "n": 2})

	if frame := sock.lastFrame(t); frame["error"] != ErrCodeRateLimited {
		t.Errorf("error = %v, want %s", frame["error"], ErrCodeRateLimited)
	}
	if sock.closed {
		t.Error("rate limited connection was closed")
	}
}

func TestRejoinMovesSession(t *testing.T) {
	rig := newTestRig(t)

	c, sock := rig.connect(t)
	rig.joinDevice(t, c, sock, "sess-1", "alice")
	rig.joinDevice(t, c, sock, "sess-2", "alice")

	if got := rig.router.SessionCount(); got != 1 {
		t.Fatalf("sessions after rejoin = %d, want 1", got)
	}

	peer, peerSock := rig.connect(t)
	rig.joinDevice(t, peer, peerSock, "sess-2", "bob")

	rig.send(c, map[string]any{"type": "caption", "text": "moved"})
	if frame := peerSock.lastFrame(t); frame["text"] != "moved" {
		t.Errorf("peer frame = %v", frame)
	}
}

func TestUnregisterCollectsEmptySessions(t *testing.T) {
	rig := newTestRig(t)

	a, aSock := rig.connect(t)
	b, bSock := rig.connect(t)
	rig.joinDevice(t, a, aSock, "sess-1", "alice")
	rig.joinDevice(t, b, bSock, "sess-1", "bob")

	rig.router.Unregister(a)
	if got := rig.router.SessionCount(); got != 1 {
		t.Fatalf("sessions = %d, want 1 while a member remains", got)
	}

	rig.router.Unregister(b)
	if got := rig.router.SessionCount(); got != 0 {
		t.Errorf("sessions = %d, want 0 after last member left", got)
	}
	if got := rig.router.ConnCount(); got != 0 {
		t.Errorf("conns = %d, want 0", got)
	}
}

func TestSweepEvictsUnresponsive(t *testing.T) {
	rig := newTestRig(t)

	healthy, healthySock := rig.connect(t)
	dead, deadSock := rig.connect(t)
	dead.alive.Store(false)

	rig.router.sweep()

	if !deadSock.closed {
		t.Error("unresponsive connection was not terminated")
	}
	if healthySock.closed {
		t.Error("healthy connection was terminated")
	}
	if healthySock.pings != 1 {
		t.Errorf("healthy pings = %d, want 1", healthySock.pings)
	}
	if healthy.alive.Load() {
		t.Error("healthy connection should be marked stale until it pongs")
	}

	// A pong restores liveness before the next sweep.
	healthy.alive.Store(true)
	rig.router.sweep()
	if healthySock.closed {
		t.Error("ponging connection was terminated")
	}
}
