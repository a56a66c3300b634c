package game

import (
	"time"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

// MaxBadGuesses is the wrong-guess budget; the gallows is complete at this count.
const MaxBadGuesses = 6

// Status is the lifecycle state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Over reports whether s is terminal.
func (s Status) Over() bool {
	return s == StatusWon || s == StatusLost
}

// Session is the state of one playthrough.
type Session struct {
	PlayerName string
	Phrase     phrase.Phrase
	Guessed    Letters
	BadGuesses int
	Status     Status
	Blanks     string
	StartedAt  time.Time
	EndedAt    time.Time
}

// Duration returns the play time so far, or the total once the game ended.
func (s Session) Duration(now time.Time) time.Duration {
	if !s.EndedAt.IsZero() {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

func (s Session) clone() Session {
	s.Guessed = s.Guessed.Clone()
	return s
}

// GuessResult is the session after a guess plus what the guess did.
type GuessResult struct {
	Session
	Letter   rune
	Hit      bool
	Repeated bool
}
