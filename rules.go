package main

import (
	"strings"
)

// Rules is the game logic applied to a locked Room. It never touches the
// transport; callers hold the room mutex, apply an operation, and emit the
// notifications the returned Outcome asks for while still holding the lock.
type Rules struct {
	corpus        *Corpus
	validateWords bool
	startingLives int
}

func newRules(cfg *Config, corpus *Corpus) *Rules {
	return &Rules{
		corpus:        corpus,
		validateWords: cfg.validateWords,
		startingLives: cfg.startingLives,
	}
}

// Outcome describes what an operation did and which notifications the
// caller owes the room or the originating connection.
type Outcome struct {
	NotFound  bool   // player has no roster entry; nothing changed
	Forbidden bool   // zero-lives guess rejected, sender only
	Token     string // non-empty when a fresh token was generated
	Winner    string // display name, non-empty when this mutation decided the game
	GameOver  bool
}

// ValidateGuess implements the strict policy: the submitted word must be a
// corpus member (case-insensitively) and must contain the challenge token
// as a substring, anywhere, exactly as submitted. The trust policy skips
// this check entirely; that choice lives in the coordinator.
func (ru *Rules) ValidateGuess(word, token string) bool {
	if token == "" {
		return false
	}
	return ru.corpus.Contains(strings.ToLower(word)) && strings.Contains(word, token)
}

// assignTokenLocked samples a fresh challenge token, stores it on the room,
// and moves a waiting room into the active phase.
func (ru *Rules) assignTokenLocked(rm *Room) string {
	rm.token = ru.corpus.SampleToken()
	if rm.phase == PhaseWaiting {
		rm.phase = PhaseActive
	}
	return rm.token
}

// applyCorrectAnswerLocked credits connID with a correct guess: score goes
// up by one and the whole room gets a fresh token. A player out of lives
// is refused without touching room state, and in particular without
// burning a new token.
func (ru *Rules) applyCorrectAnswerLocked(rm *Room, connID string) Outcome {
	player := rm.entryLocked(connID)
	if player == nil {
		return Outcome{NotFound: true}
	}

	if player.Lives == 0 {
		return Outcome{Forbidden: true}
	}

	player.Score++

	out := Outcome{
		Token: ru.assignTokenLocked(rm),
	}

	if winner, decided := evaluateWinLocked(rm); decided {
		out.Winner = winner.DisplayName
		out.GameOver = true
	}

	return out
}

// applyTimeoutLocked expires the current round: every player still holding
// lives loses exactly one, and a fresh token goes out unconditionally,
// even when nobody had lives left to lose.
func (ru *Rules) applyTimeoutLocked(rm *Room) Outcome {
	for _, p := range rm.roster {
		if p.Lives > 0 {
			p.Lives--
		}
	}

	out := Outcome{
		Token: ru.assignTokenLocked(rm),
	}

	if winner, decided := evaluateWinLocked(rm); decided {
		out.Winner = winner.DisplayName
		out.GameOver = true
	}

	return out
}

// evaluateWinLocked checks the win condition after a lives mutation: the
// game is decided when exactly one rostered player still has lives. Zero
// survivors after a simultaneous elimination announces nothing; the
// protocol has no tie event. The phase guard keeps the announcement to at
// most one per game.
func evaluateWinLocked(rm *Room) (*PlayerEntry, bool) {
	if rm.phase == PhaseGameOver {
		return nil, false
	}

	var survivor *PlayerEntry
	alive := 0

	for _, p := range rm.roster {
		if p.Lives > 0 {
			alive++
			survivor = p
		}
	}

	if alive != 1 {
		return nil, false
	}

	rm.phase = PhaseGameOver
	return survivor, true
}
