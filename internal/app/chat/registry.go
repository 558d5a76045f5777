package chat

import (
	"context"
	"sync"
)

// Registry tracks the live connections of every identity.
// An identity may hold any number of connections at once.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}
	count int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[*Conn]struct{})}
}

// Register adds conn under identity.
func (r *Registry) Register(identity string, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[identity]
	if !ok {
		set = make(map[*Conn]struct{})
		r.conns[identity] = set
	}

	if _, dup := set[conn]; !dup {
		set[conn] = struct{}{}
		r.count++
	}
}

// Unregister removes conn. It is a no-op for connections that are not registered.
func (r *Registry) Unregister(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[conn.identity]
	if !ok {
		return
	}

	if _, present := set[conn]; !present {
		return
	}

	delete(set, conn)
	r.count--

	if len(set) == 0 {
		delete(r.conns, conn.identity)
	}
}

// ConnectionsFor returns a snapshot of the connections held by identity.
// An empty result means the identity is currently unreachable.
func (r *Registry) ConnectionsFor(identity string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.conns[identity]
	out := make([]*Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}

	return out
}

// ConnectionsForGroup returns the live connections of every current member of groupID,
// excluding the exclude connection. Membership is resolved through lookup at call time.
func (r *Registry) ConnectionsForGroup(ctx context.Context, groupID int64, exclude *Conn, lookup MembershipLookup) ([]*Conn, error) {
	members, err := lookup.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*Conn]struct{})
	out := make([]*Conn, 0, len(members))

	for _, identity := range members {
		for c := range r.conns[identity] {
			if c == exclude {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	return out, nil
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.count
}

// Snapshot returns every registered connection.
func (r *Registry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Conn, 0, r.count)
	for _, set := range r.conns {
		for c := range set {
			out = append(out, c)
		}
	}

	return out
}
