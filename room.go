package main

import (
	"sync"
)

// Phase tracks where a room is in its game lifecycle. It is informational:
// the rules engine keeps processing events after PhaseGameOver, matching
// the trust-the-clients protocol the game speaks.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseActive
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// PlayerEntry holds the data we store server-side for one connection in
// one room. Score never decreases; Lives never goes below zero and only
// drops through timeout processing.
type PlayerEntry struct {
	ConnID      string
	DisplayName string
	Score       int
	Lives       int
}

// PlayerSummary is the roster projection broadcast as "userList".
type PlayerSummary struct {
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Lives       int    `json:"lives"`
}

// Room is the authoritative state of one game session. All mutation and
// any projection taken for broadcast happen under mu, held for the whole
// multi-step sequence so concurrent guesses and timeouts never interleave.
type Room struct {
	mu sync.Mutex

	id      string
	roster  []*PlayerEntry // insertion order
	token   string         // "" until the first join generates one
	phase   Phase
	removed bool // set by the registry on destruction; stale handles must re-resolve
}

func newRoom(id string) *Room {
	return &Room{
		id: id,
	}
}

// ID returns the room's identifier.
func (rm *Room) ID() string {
	return rm.id
}

// entryLocked returns the roster entry for connID, or nil.
func (rm *Room) entryLocked(connID string) *PlayerEntry {
	for _, p := range rm.roster {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// addEntryLocked inserts a new entry unless connID is already rostered.
// Returns true if an entry was added.
func (rm *Room) addEntryLocked(connID, displayName string, lives int) bool {
	if rm.entryLocked(connID) != nil {
		return false
	}
	rm.roster = append(rm.roster, &PlayerEntry{
		ConnID:      connID,
		DisplayName: displayName,
		Lives:       lives,
	})
	return true
}

// removeEntryLocked deletes connID's entry if present, preserving the
// insertion order of the rest. Returns true if an entry was removed.
func (rm *Room) removeEntryLocked(connID string) bool {
	dst := rm.roster[:0]
	changed := false

	for _, p := range rm.roster {
		if p.ConnID == connID {
			changed = true
			continue
		}
		dst = append(dst, p)
	}
	rm.roster = dst

	return changed
}

// projectLocked builds the roster projection in insertion order. Any
// connection the transport knows about that has no roster entry yet (a
// join still in flight) projects as an anonymous placeholder so member
// counts stay consistent with the transport's view.
func (rm *Room) projectLocked(connected []string, placeholderLives int) []PlayerSummary {
	summaries := make([]PlayerSummary, 0, len(rm.roster))
	seen := make(map[string]struct{}, len(rm.roster))

	for _, p := range rm.roster {
		summaries = append(summaries, PlayerSummary{
			DisplayName: p.DisplayName,
			Score:       p.Score,
			Lives:       p.Lives,
		})
		seen[p.ConnID] = struct{}{}
	}

	for _, connID := range connected {
		if _, ok := seen[connID]; ok {
			continue
		}
		summaries = append(summaries, PlayerSummary{
			DisplayName: "Anonymous",
			Score:       0,
			Lives:       placeholderLives,
		})
	}

	return summaries
}
