package websocket

import (
	"log"
	"sync"

	"tutorboard/pkg/interfaces"
)

// Registry tracks live authenticated connections by user identifier.
// Pure connection bookkeeping; room membership lives in the room manager and
// message flow in the dispatcher.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]interfaces.Connection // userID -> connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]interfaces.Connection),
	}
}

// Register adds a connection. Unauthenticated connections are rejected; a
// rejected connection never enters a room and never receives dispatch events.
// An existing connection for the same user is replaced and closed
// asynchronously to avoid holding the lock through a network close.
func (r *Registry) Register(conn interfaces.Connection) error {
	if conn == nil {
		return ErrNilConnection
	}

	if !conn.IsAuthenticated() {
		return ErrConnectionNotAuthenticated
	}

	userID := conn.GetUserID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.conns[userID]; ok {
		go func() {
			if err := existing.Close(); err != nil {
				log.Printf("Failed to close superseded connection for %s: %v", userID, err)
			}
		}()
	}

	r.conns[userID] = conn

	return nil
}

// Unregister removes a connection. Idempotent, and instance-checked: a stale
// connection cleaning up after replacement must not evict its successor.
func (r *Registry) Unregister(conn interfaces.Connection) {
	if conn == nil {
		return
	}

	userID := conn.GetUserID()

	r.mu.Lock()
	defer r.mu.Unlock()

	registered, ok := r.conns[userID]
	if !ok || registered != conn {
		return
	}

	delete(r.conns, userID)
}

// Get returns the current connection for a user. The dispatcher resolves the
// sender through this before every emit, so replies that land after a
// disconnect are discarded instead of written to a dead handle.
func (r *Registry) Get(userID string) (interfaces.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	return conn, ok
}

// Stats returns registry counters for the ops endpoints.
func (r *Registry) Stats() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]int{
		"total_connections": len(r.conns),
	}
}
