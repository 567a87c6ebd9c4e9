// Package wsserver implements the WebSocket relay endpoint.
//
// Connections attach over GET /ws and authenticate in-band with a
// control frame: `join` carries device credentials, `join_listener`
// carries owner credentials. After a successful join every frame a
// device sends is relayed verbatim to the other members of its session.
// The relay never inspects relayed payloads beyond checking that they
// are JSON.
package wsserver

import "encoding/json"

// Control frame types.
const (
	TypeJoin         = "join"
	TypeJoinListener = "join_listener"
	TypeJoined       = "joined"
	TypeError        = "error"
)

// In-band error codes. All are lenient: the connection stays open.
const (
	ErrCodeInvalidJSON = "invalid_json"
	ErrCodeInvalidJoin = "invalid_join"
	ErrCodeUnauth      = "unauthorized"
	ErrCodeNotJoined   = "not_joined"
	ErrCodeRateLimited = "rate_limited"
)

// controlFrame is the superset of both join envelopes. Only Type is
// read for non-control traffic.
type controlFrame struct {
	Type          string `json:"type"`
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
	DeviceID      string `json:"deviceId"`
	DeviceSecret  string `json:"deviceSecret"`
	OwnerID       string `json:"ownerId"`
	OwnerSecret   string `json:"ownerSecret"`
}

// joinedFrame acknowledges a successful join.
type joinedFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// errorFrame reports an in-band error.
type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newJoined(sessionID string) joinedFrame {
	return joinedFrame{Type: TypeJoined, SessionID: sessionID}
}

func newError(code string) errorFrame {
	return errorFrame{Type: TypeError, Error: code}
}

// validJSON reports whether data parses as a JSON value.
func validJSON(data []byte) bool {
	return json.Valid(data)
}
