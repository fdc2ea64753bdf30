package main

import (
	"sync"

	"github.com/gorilla/websocket"
)

// clientMessage is the envelope for events coming from clients.
type clientMessage struct {
	Event         string `json:"event"`                   // "joinRoom", "startGame", "correctAnswerAttempt", "timeOver", "pauseTimer", "resumeTimer"
	RoomID        string `json:"roomId,omitempty"`        // all events
	DisplayName   string `json:"displayName,omitempty"`   // joinRoom
	SubmittedWord string `json:"submittedWord,omitempty"` // correctAnswerAttempt
}

// serverMessage is the envelope for events sent to clients.
type serverMessage struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Broadcaster is the transport seen by the session coordinator: room
// membership plus delivery of named events to a room or a single
// connection. The production implementation is socketHub; tests substitute
// a recorder.
type Broadcaster interface {
	Subscribe(connID, roomID string)
	Unsubscribe(connID, roomID string)
	EmitToRoom(roomID, event string, payload any)
	EmitToConnection(connID, event string, payload any)
	Connections(roomID string) []string
	Rooms(connID string) []string
}

type wsClient struct {
	conn *websocket.Conn
	send chan serverMessage
	id   string
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// socketHub tracks websocket connections and their room memberships. Room
// membership is kept in join order so roster projections and membership
// enumeration are deterministic.
type socketHub struct {
	mu      sync.Mutex
	clients map[string]*wsClient
	rooms   map[string][]string            // roomID -> connIDs in join order
	joined  map[string]map[string]struct{} // connID -> roomIDs
}

func newSocketHub() *socketHub {
	return &socketHub{
		clients: make(map[string]*wsClient),
		rooms:   make(map[string][]string),
		joined:  make(map[string]map[string]struct{}),
	}
}

func (h *socketHub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
}

// remove forgets the connection entirely and closes its send channel,
// which ends the write pump. Room memberships are expected to have been
// unsubscribed already by disconnect handling.
func (h *socketHub) remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	delete(h.clients, connID)
	for roomID := range h.joined[connID] {
		h.dropMemberLocked(connID, roomID)
	}
	delete(h.joined, connID)
	close(c.send)
}

func (h *socketHub) dropMemberLocked(connID, roomID string) {
	members := h.rooms[roomID]
	dst := members[:0]
	for _, id := range members {
		if id == connID {
			continue
		}
		dst = append(dst, id)
	}
	if len(dst) == 0 {
		delete(h.rooms, roomID)
	} else {
		h.rooms[roomID] = dst
	}
}

func (h *socketHub) Subscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.joined[connID]; !ok {
		h.joined[connID] = make(map[string]struct{})
	}
	if _, ok := h.joined[connID][roomID]; ok {
		return
	}
	h.joined[connID][roomID] = struct{}{}
	h.rooms[roomID] = append(h.rooms[roomID], connID)
}

func (h *socketHub) Unsubscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.joined[connID][roomID]; !ok {
		return
	}
	delete(h.joined[connID], roomID)
	h.dropMemberLocked(connID, roomID)
}

// EmitToRoom delivers an event to every current room member. Sends are
// non-blocking: a client whose buffer is full loses the message instead of
// stalling the room.
func (h *socketHub) EmitToRoom(roomID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, connID := range h.rooms[roomID] {
		c, ok := h.clients[connID]
		if !ok {
			continue
		}
		select {
		case c.send <- serverMessage{Event: event, Payload: payload}:
		default:
		}
	}
}

func (h *socketHub) EmitToConnection(connID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case c.send <- serverMessage{Event: event, Payload: payload}:
	default:
	}
}

// Connections returns a room's member connection ids in join order.
func (h *socketHub) Connections(roomID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms[roomID]
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// Rooms returns every room the connection is currently subscribed to.
func (h *socketHub) Rooms(connID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, len(h.joined[connID]))
	for roomID := range h.joined[connID] {
		out = append(out, roomID)
	}
	return out
}
