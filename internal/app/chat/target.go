package chat

import (
	"strconv"
	"time"
)

// Mode distinguishes one-to-one conversations from group conversations.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeGroup  Mode = "group"
)

// Target is the conversation a connection was opened for.
type Target struct {
	Mode Mode

	// Peer is the other participant in direct mode.
	Peer string

	// GroupID identifies the group in group mode.
	GroupID int64
}

// DirectTarget returns a one-to-one target with peer.
func DirectTarget(peer string) Target {
	return Target{Mode: ModeDirect, Peer: peer}
}

// GroupTarget returns a group target.
func GroupTarget(groupID int64) Target {
	return Target{Mode: ModeGroup, GroupID: groupID}
}

// String renders the target for logs, e.g. "direct:u2" or "group:7".
func (t Target) String() string {
	if t.Mode == ModeGroup {
		return string(t.Mode) + ":" + strconv.FormatInt(t.GroupID, 10)
	}
	return string(t.Mode) + ":" + t.Peer
}

func (t Target) wellFormed() bool {
	switch t.Mode {
	case ModeDirect:
		return t.Peer != ""
	case ModeGroup:
		return t.GroupID > 0
	default:
		return false
	}
}

// Transport is the subset of *websocket.Conn used by a connection.
// Close and WriteControl may be called concurrently with the other methods.
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}
