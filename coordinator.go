package main

import (
	"fmt"
)

// Outbound event names.
const (
	eventAnswerResult   = "answerResult"
	eventForbidden      = "forbidden"
	eventGameError      = "gameError"
	eventGameOver       = "gameOver"
	eventGameStarted    = "gameStarted"
	eventPauseTimerAll  = "pauseTimerForAll"
	eventRandomString   = "randomString"
	eventResumeTimerAll = "resumeTimerForAll"
	eventUserCount      = "userCount"
	eventUserList       = "userList"
)

// answerResult payload, sent to the guessing connection only when strict
// validation is enabled.
type answerResult struct {
	Correct bool `json:"correct"`
}

// Coordinator binds inbound events to the registry and rules engine, and
// is the only component that talks to the Broadcaster. Every operation on
// a room resolves the room, takes its mutex, mutates, projects, and emits
// inside that one critical section, so broadcasts always reflect exactly
// the state produced by the mutation that triggered them. Different rooms
// never contend.
type Coordinator struct {
	cfg       *Config
	registry  *RoomRegistry
	rules     *Rules
	transport Broadcaster
}

func newCoordinator(cfg *Config, corpus *Corpus, transport Broadcaster) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		registry:  newRoomRegistry(cfg.keepEmptyRooms),
		rules:     newRules(cfg, corpus),
		transport: transport,
	}
}

// Join registers the connection in the room, creating both the room and
// the player entry as needed. The first join of a room generates its
// challenge token and broadcasts it; later joiners receive the existing
// token privately.
func (co *Coordinator) Join(connID, roomID, displayName string) {
	if connID == "" || roomID == "" {
		return
	}
	if displayName == "" {
		displayName = "Anonymous"
	}

	co.transport.Subscribe(connID, roomID)

	rm := co.registry.GetOrCreate(roomID)
	rm.mu.Lock()

	// A concurrent disconnect may have destroyed the room between the
	// lookup and the lock; re-resolve so the entry never lands in an
	// orphaned room the registry no longer hands out.
	for rm.removed {
		rm.mu.Unlock()
		rm = co.registry.GetOrCreate(roomID)
		rm.mu.Lock()
	}
	defer rm.mu.Unlock()

	if rm.addEntryLocked(connID, displayName, co.rules.startingLives) {
		logf(co.cfg, "ROOMS: Player %q joined %s", displayName, roomID)
	}

	if rm.token == "" {
		token := co.rules.assignTokenLocked(rm)
		co.transport.EmitToRoom(roomID, eventRandomString, token)
	} else {
		co.transport.EmitToConnection(connID, eventRandomString, rm.token)
	}

	co.broadcastRosterLocked(rm)
}

// StartGame is informational: clients use it to kick off their round
// timers. It needs at least two current members and never gates guess
// acceptance.
func (co *Coordinator) StartGame(connID, roomID string) {
	if roomID == "" {
		return
	}

	if len(co.transport.Connections(roomID)) < 2 {
		co.transport.EmitToConnection(connID, eventGameError, "At least two players are required to start a game.")
		return
	}

	co.transport.EmitToRoom(roomID, eventGameStarted, roomID)
	logf(co.cfg, "ROOMS: Game started in %s", roomID)
}

// Guess handles a correctAnswerAttempt. Under strict validation the word
// is checked against the corpus and the current token first, and the
// verdict goes back to the sender as answerResult; an invalid word stops
// there. The trust policy accepts every attempt.
func (co *Coordinator) Guess(connID, roomID, submittedWord string) {
	rm, ok := co.registry.Get(roomID)
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.removed {
		return
	}

	// A dead player's attempt is refused outright, before any validation
	// verdict, so one guess never gets both an answerResult and a
	// forbidden.
	if p := rm.entryLocked(connID); p != nil && p.Lives == 0 {
		co.transport.EmitToConnection(connID, eventForbidden, "You have no lives left.")
		return
	}

	if co.cfg.validateWords {
		valid := co.rules.ValidateGuess(submittedWord, rm.token)
		co.transport.EmitToConnection(connID, eventAnswerResult, answerResult{Correct: valid})
		if !valid {
			return
		}
	}

	out := co.rules.applyCorrectAnswerLocked(rm, connID)

	switch {
	case out.NotFound:
		return
	case out.Forbidden:
		co.transport.EmitToConnection(connID, eventForbidden, "You have no lives left.")
		return
	}

	co.transport.EmitToRoom(roomID, eventRandomString, out.Token)
	co.broadcastRosterLocked(rm)
	co.announceWinnerLocked(rm, out)
}

// Timeout expires the current round for a room. Unknown rooms are a
// no-op; the round clock is entirely client-side and a stale timer must
// not materialize state.
func (co *Coordinator) Timeout(roomID string) {
	rm, ok := co.registry.Get(roomID)
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.removed {
		return
	}

	out := co.rules.applyTimeoutLocked(rm)

	co.transport.EmitToRoom(roomID, eventRandomString, out.Token)
	co.broadcastRosterLocked(rm)
	co.announceWinnerLocked(rm, out)
}

// Pause and Resume are pure pass-through signals; the server keeps no
// timer state and cannot verify elapsed time.
func (co *Coordinator) Pause(roomID string) {
	co.transport.EmitToRoom(roomID, eventPauseTimerAll, roomID)
}

func (co *Coordinator) Resume(roomID string) {
	co.transport.EmitToRoom(roomID, eventResumeTimerAll, roomID)
}

// Disconnect removes the connection from every room it joined and informs
// the remaining members. Safe to call for connections or rooms that are
// already gone.
func (co *Coordinator) Disconnect(connID string) {
	for _, roomID := range co.transport.Rooms(connID) {
		co.transport.Unsubscribe(connID, roomID)

		rm, ok := co.registry.Get(roomID)
		if !ok {
			continue
		}

		rm.mu.Lock()
		if rm.removeEntryLocked(connID) {
			logf(co.cfg, "ROOMS: Player left %s", roomID)
		}
		co.broadcastRosterLocked(rm)
		rm.mu.Unlock()

		co.registry.RemoveIfEmpty(roomID)
	}
}

// broadcastRosterLocked sends the roster projection and member count,
// taken from the same critical section as whatever mutation preceded it.
func (co *Coordinator) broadcastRosterLocked(rm *Room) {
	connected := co.transport.Connections(rm.id)
	co.transport.EmitToRoom(rm.id, eventUserList, rm.projectLocked(connected, co.rules.startingLives))
	co.transport.EmitToRoom(rm.id, eventUserCount, len(connected))
}

func (co *Coordinator) announceWinnerLocked(rm *Room, out Outcome) {
	if !out.GameOver {
		return
	}
	co.transport.EmitToRoom(rm.id, eventGameOver, fmt.Sprintf("%s has won the game!", out.Winner))
	logf(co.cfg, "ROOMS: %q won the game in %s", out.Winner, rm.id)
}
