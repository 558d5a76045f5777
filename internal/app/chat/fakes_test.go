package chat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chatrelay/internal/pkg/errs"
)

type fakeTransport struct {
	inbound chan []byte
	written chan []byte

	closed    chan struct{}
	closeOnce sync.Once

	// controlGate, when set, holds WriteControl until it is closed.
	controlGate chan struct{}

	mu        sync.Mutex
	closeCode int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan []byte, 16),
		written: make(chan []byte, 64),
		closed:  make(chan struct{}),
	}
}

func (f *fakeTransport) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-f.inbound:
		return websocket.TextMessage, msg, nil
	case <-f.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
}

func (f *fakeTransport) WriteMessage(messageType int, data []byte) error {
	select {
	case <-f.closed:
		return websocket.ErrCloseSent
	default:
	}

	if messageType == websocket.TextMessage {
		f.written <- data
	}
	return nil
}

func (f *fakeTransport) WriteControl(messageType int, data []byte, _ time.Time) error {
	if f.controlGate != nil {
		<-f.controlGate
	}
	if messageType == websocket.CloseMessage && len(data) >= 2 {
		f.mu.Lock()
		f.closeCode = int(binary.BigEndian.Uint16(data[:2]))
		f.mu.Unlock()
	}
	return nil
}

func (f *fakeTransport) SetReadLimit(int64)                {}
func (f *fakeTransport) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeTransport) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeTransport) SetPongHandler(func(string) error) {}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) CloseCode() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCode
}

func (f *fakeTransport) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

// next waits for the next text frame written to the transport.
func (f *fakeTransport) next(t *testing.T) map[string]any {
	t.Helper()

	select {
	case data := <-f.written:
		var frame map[string]any
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("Written frame is not JSON: %v", err)
		}
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a written frame")
		return nil
	}
}

func (f *fakeTransport) expectSilence(t *testing.T) {
	t.Helper()

	select {
	case data := <-f.written:
		t.Fatalf("Unexpected frame written: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeVerifier map[string]string

func (v fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	identity, ok := v[token]
	if !ok {
		return "", errs.Wrap(errs.ErrUnauthorized, errors.New("invalid token"))
	}
	return identity, nil
}

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]bool
	groups   map[int64][]string
	messages []StoredMessage

	lookupErr error
	insertErr error

	// blockInsert makes InsertMessage wait for its context to expire.
	blockInsert bool
}

func newFakeStore(users ...string) *fakeStore {
	s := &fakeStore{
		users:  make(map[string]bool),
		groups: make(map[int64][]string),
	}
	for _, u := range users {
		s.users[u] = true
	}
	return s
}

func (s *fakeStore) UserExists(_ context.Context, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	return s.users[identity], nil
}

func (s *fakeStore) IsMember(_ context.Context, groupID int64, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	for _, m := range s.groups[groupID] {
		if m == identity {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) GroupMembers(_ context.Context, groupID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return append([]string(nil), s.groups[groupID]...), nil
}

func (s *fakeStore) InsertMessage(ctx context.Context, msg StoredMessage) (int64, error) {
	s.mu.Lock()
	block, insertErr := s.blockInsert, s.insertErr
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if insertErr != nil {
		return 0, insertErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	return int64(len(s.messages)), nil
}

func (s *fakeStore) stored() []StoredMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StoredMessage(nil), s.messages...)
}

type recordingEvicter struct {
	registry *Registry

	mu      sync.Mutex
	evicted []*Conn
}

func (r *recordingEvicter) Evict(c *Conn) {
	r.mu.Lock()
	r.evicted = append(r.evicted, c)
	r.mu.Unlock()

	r.registry.Unregister(c)
	c.shutdown()
}

func (r *recordingEvicter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.evicted)
}

func testConn(identity string, target Target, opts Options) (*Conn, *fakeTransport) {
	tr := newFakeTransport()
	return newConn(identity, target, tr, opts.withDefaults()), tr
}

// drain returns the frames queued on c without a write pump.
func drain(c *Conn) [][]byte {
	var out [][]byte
	for {
		select {
		case f, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, f)
		default:
			return out
		}
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}
