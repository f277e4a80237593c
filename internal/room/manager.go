package room

import (
	"log"
	"sync"

	"github.com/samber/lo"
	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

// Manager maintains named groups of connections for broadcast scoping.
// Rooms are opaque flat names, created implicitly on first join and pruned
// when the last member leaves. A connection appears in a room's membership
// only between its join and its leave or disconnect.
type Manager struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]interfaces.Connection // room -> userID -> connection
	joined map[string]map[string]struct{}              // userID -> set of room names
}

// NewManager creates an empty room table.
func NewManager() *Manager {
	return &Manager{
		rooms:  make(map[string]map[string]interfaces.Connection),
		joined: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the room and broadcasts a status notice to all
// members, the joiner included. Joining a room the user is already in is a
// no-op: no error, no duplicate broadcast.
func (m *Manager) Join(conn interfaces.Connection, roomName string) error {
	if conn == nil {
		return ErrNilConnection
	}
	if !types.IsValidRoom(roomName) {
		return types.ErrInvalidRoom
	}

	userID := conn.GetUserID()

	m.mu.Lock()
	if members, ok := m.rooms[roomName]; ok {
		if _, already := members[userID]; already {
			m.mu.Unlock()
			return nil
		}
	} else {
		m.rooms[roomName] = make(map[string]interfaces.Connection)
	}

	m.rooms[roomName][userID] = conn
	if m.joined[userID] == nil {
		m.joined[userID] = make(map[string]struct{})
	}
	m.joined[userID][roomName] = struct{}{}

	members := lo.Values(m.rooms[roomName])
	m.mu.Unlock()

	m.broadcast(members, "A user has joined the room.")
	return nil
}

// Leave removes the connection from the room and broadcasts a symmetric
// notice to the remaining members and the leaver. Leaving a room the user is
// not in is a no-op.
func (m *Manager) Leave(conn interfaces.Connection, roomName string) error {
	if conn == nil {
		return ErrNilConnection
	}
	if !types.IsValidRoom(roomName) {
		return types.ErrInvalidRoom
	}

	userID := conn.GetUserID()

	m.mu.Lock()
	members, ok := m.rooms[roomName]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	if _, member := members[userID]; !member {
		m.mu.Unlock()
		return nil
	}

	m.removeLocked(userID, roomName)

	// Snapshot after removal, then notify the leaver too.
	recipients := lo.Values(m.rooms[roomName])
	recipients = append(recipients, conn)
	m.mu.Unlock()

	m.broadcast(recipients, "A user has left the room.")
	return nil
}

// RemoveAll purges the connection from every room it belongs to. Used on
// disconnect; no notices are broadcast for implicit departures.
func (m *Manager) RemoveAll(conn interfaces.Connection) {
	if conn == nil {
		return
	}

	userID := conn.GetUserID()

	m.mu.Lock()
	defer m.mu.Unlock()

	for roomName := range m.joined[userID] {
		m.removeLocked(userID, roomName)
	}
}

// removeLocked deletes the membership entry and prunes empty rooms. Caller
// holds the write lock.
func (m *Manager) removeLocked(userID, roomName string) {
	if members, ok := m.rooms[roomName]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, roomName)
		}
	}

	if roomSet, ok := m.joined[userID]; ok {
		delete(roomSet, roomName)
		if len(roomSet) == 0 {
			delete(m.joined, userID)
		}
	}
}

// Members returns the user IDs currently in a room.
func (m *Manager) Members(roomName string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Keys(m.rooms[roomName])
}

// Stats returns room counters for the ops endpoints.
func (m *Manager) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	memberships := 0
	for _, members := range m.rooms {
		memberships += len(members)
	}

	return map[string]int{
		"active_rooms": len(m.rooms),
		"memberships":  memberships,
	}
}

// broadcast delivers a status notice outside the lock. Delivery continues
// past individual failures; one dead client must not block the room.
func (m *Manager) broadcast(members []interfaces.Connection, message string) {
	event := types.StatusEvent(message)
	for _, member := range members {
		if err := member.WriteJSON(event); err != nil {
			log.Printf("Failed to deliver room notice to %s: %v", member.GetUserID(), err)
		}
	}
}
