package main

import (
	"testing"
)

func testRules(t *testing.T) *Rules {
	t.Helper()

	corpus, err := newCorpus([]string{"testing", "window", "contest"})
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	return newRules(&Config{startingLives: 5, validateWords: true}, corpus)
}

func roomWithPlayers(entries ...*PlayerEntry) *Room {
	rm := newRoom("test")
	rm.roster = entries
	rm.token = "tes"
	rm.phase = PhaseActive
	return rm
}

func TestValidateGuess(t *testing.T) {
	rules := testRules(t)

	cases := []struct {
		word  string
		token string
		want  bool
	}{
		{"testing", "tes", true},    // membership + prefix containment
		{"contest", "tes", true},    // token in the middle
		{"window", "tes", false},    // member without the token
		{"tesseract", "tes", false}, // contains token but not a member
		{"TESTING", "tes", false},   // containment is case-sensitive as submitted
		{"testing", "", false},      // no active token
	}

	for _, tc := range cases {
		if got := rules.ValidateGuess(tc.word, tc.token); got != tc.want {
			t.Fatalf("ValidateGuess(%q, %q) = %v, want %v", tc.word, tc.token, got, tc.want)
		}
	}
}

func TestApplyCorrectAnswerScores(t *testing.T) {
	rules := testRules(t)
	rm := roomWithPlayers(
		&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 3},
		&PlayerEntry{ConnID: "b", DisplayName: "Bob", Lives: 3},
	)

	out := rules.applyCorrectAnswerLocked(rm, "a")

	if out.Forbidden || out.NotFound {
		t.Fatalf("unexpected rejection: %+v", out)
	}
	if got := rm.entryLocked("a").Score; got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
	if out.Token == "" || out.Token != rm.token {
		t.Fatalf("expected the outcome token to match the stored room token")
	}
	if out.GameOver {
		t.Fatalf("scoring with two live players must not end the game")
	}
}

func TestApplyCorrectAnswerWithZeroLives(t *testing.T) {
	rules := testRules(t)
	rm := roomWithPlayers(
		&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 0},
		&PlayerEntry{ConnID: "b", DisplayName: "Bob", Lives: 3},
	)
	before := rm.token

	out := rules.applyCorrectAnswerLocked(rm, "a")

	if !out.Forbidden {
		t.Fatalf("expected a forbidden outcome for a dead player")
	}
	if rm.entryLocked("a").Score != 0 {
		t.Fatalf("expected score unchanged")
	}
	if rm.token != before {
		t.Fatalf("expected the token untouched by a forbidden guess")
	}
}

func TestApplyCorrectAnswerUnknownPlayer(t *testing.T) {
	rules := testRules(t)
	rm := roomWithPlayers(&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 3})

	out := rules.applyCorrectAnswerLocked(rm, "nobody")

	if !out.NotFound {
		t.Fatalf("expected a not-found outcome, got %+v", out)
	}
}

func TestApplyTimeoutDecrementsOnlyLivePlayers(t *testing.T) {
	rules := testRules(t)
	rm := roomWithPlayers(
		&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 2},
		&PlayerEntry{ConnID: "b", DisplayName: "Bob", Lives: 0},
		&PlayerEntry{ConnID: "c", DisplayName: "Carol", Lives: 1},
	)

	out := rules.applyTimeoutLocked(rm)

	if got := rm.entryLocked("a").Lives; got != 1 {
		t.Fatalf("expected alice at 1 life, got %d", got)
	}
	if got := rm.entryLocked("b").Lives; got != 0 {
		t.Fatalf("expected bob to stay at 0 lives, got %d", got)
	}
	if got := rm.entryLocked("c").Lives; got != 0 {
		t.Fatalf("expected carol at 0 lives, got %d", got)
	}
	if out.Token == "" {
		t.Fatalf("expected a fresh token even with eliminations")
	}
	if !out.GameOver || out.Winner != "Alice" {
		t.Fatalf("expected alice as sole survivor, got %+v", out)
	}
	if rm.phase != PhaseGameOver {
		t.Fatalf("expected the room in the gameover phase")
	}
}

func TestApplyTimeoutRollsTokenWithNoLivesLost(t *testing.T) {
	rules := testRules(t)
	rm := roomWithPlayers(
		&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 0},
		&PlayerEntry{ConnID: "b", DisplayName: "Bob", Lives: 0},
	)
	rm.phase = PhaseGameOver

	out := rules.applyTimeoutLocked(rm)

	if out.Token == "" {
		t.Fatalf("expected a token regeneration regardless of lives")
	}
	if out.GameOver {
		t.Fatalf("expected no new winner determination after game over")
	}
}

func TestEvaluateWinZeroSurvivors(t *testing.T) {
	rm := roomWithPlayers(
		&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 0},
		&PlayerEntry{ConnID: "b", DisplayName: "Bob", Lives: 0},
	)

	if winner, decided := evaluateWinLocked(rm); decided {
		t.Fatalf("expected no winner with zero survivors, got %v", winner)
	}
	if rm.phase == PhaseGameOver {
		t.Fatalf("expected the phase unchanged with zero survivors")
	}
}

func TestEvaluateWinAnnouncesOnce(t *testing.T) {
	rm := roomWithPlayers(
		&PlayerEntry{ConnID: "a", DisplayName: "Alice", Lives: 2},
		&PlayerEntry{ConnID: "b", DisplayName: "Bob", Lives: 0},
	)

	winner, decided := evaluateWinLocked(rm)
	if !decided || winner.DisplayName != "Alice" {
		t.Fatalf("expected alice to win, got %v decided=%v", winner, decided)
	}

	if _, decided := evaluateWinLocked(rm); decided {
		t.Fatalf("expected no second winner determination")
	}
}
