package main

import (
	"sync"
)

// RoomRegistry owns the mapping from room id to Room and is the only place
// rooms are created or destroyed, so at most one Room object ever exists
// per id. Room state itself is guarded by each Room's own mutex; the
// registry lock only covers the map.
type RoomRegistry struct {
	mu        sync.Mutex
	rooms     map[string]*Room
	keepEmpty bool
}

func newRoomRegistry(keepEmpty bool) *RoomRegistry {
	return &RoomRegistry{
		rooms:     make(map[string]*Room),
		keepEmpty: keepEmpty,
	}
}

// GetOrCreate returns the room for roomID, creating it in the Waiting
// phase with an empty roster if it does not exist yet. Never fails.
func (reg *RoomRegistry) GetOrCreate(roomID string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if rm, ok := reg.rooms[roomID]; ok {
		return rm
	}

	rm := newRoom(roomID)
	reg.rooms[roomID] = rm
	return rm
}

// Get looks a room up without creating it, for handlers that must treat an
// unknown room as a no-op rather than materialize one.
func (reg *RoomRegistry) Get(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[roomID]
	return rm, ok
}

// RemoveIfEmpty destroys the room once its roster is empty, unless the
// registry was configured to keep empty rooms around. The room is marked
// removed under its own mutex so callers holding a stale handle from an
// earlier lookup can detect the destruction and re-resolve instead of
// mutating an orphaned room.
func (reg *RoomRegistry) RemoveIfEmpty(roomID string) {
	if reg.keepEmpty {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[roomID]
	if !ok {
		return
	}

	rm.mu.Lock()
	if len(rm.roster) == 0 {
		rm.removed = true
		delete(reg.rooms, roomID)
	}
	rm.mu.Unlock()
}

// Len reports how many rooms currently exist.
func (reg *RoomRegistry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.rooms)
}
