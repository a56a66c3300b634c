package game

import (
	"strings"
	"time"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

// PhraseSelector picks the secret phrase for a new session.
type PhraseSelector interface {
	SelectPhrase(lang string) (phrase.Phrase, error)
}

// Option customizes a Machine.
type Option func(*Machine)

// WithClock overrides the time source used for start and end stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// Machine runs a single player's sessions one at a time. It is not safe for
// concurrent use; callers serving many players keep one Machine per player.
type Machine struct {
	phrases PhraseSelector
	now     func() time.Time
	session *Session
}

// NewMachine creates a Machine drawing phrases from phrases.
func NewMachine(phrases PhraseSelector, opts ...Option) *Machine {
	m := &Machine{phrases: phrases, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a new session, discarding any previous one. On error the
// previous session is left untouched.
func (m *Machine) Start(playerName, lang string) (Session, error) {
	p, err := m.phrases.SelectPhrase(lang)
	if err != nil {
		return Session{}, err
	}

	session := &Session{
		PlayerName: strings.TrimSpace(playerName),
		Phrase:     p,
		Status:     StatusPlaying,
		StartedAt:  m.now(),
	}
	session.Blanks = Blanks(p.SecretWord, session.Guessed)
	m.session = session

	return session.clone(), nil
}

// PlayAgain starts a new session for the current player.
func (m *Machine) PlayAgain(lang string) (Session, error) {
	if m.session == nil {
		return Session{}, ErrNoSession
	}
	return m.Start(m.session.PlayerName, lang)
}

// Guess applies one letter to the current session.
func (m *Machine) Guess(input string) (GuessResult, error) {
	s := m.session
	if s == nil {
		return GuessResult{}, ErrNoSession
	}
	if s.Status != StatusPlaying {
		return GuessResult{}, ErrGameAlreadyOver
	}

	letter, err := ParseLetter(input)
	if err != nil {
		return GuessResult{}, err
	}
	if !phrase.InAlphabet(s.Phrase.Language, letter) {
		return GuessResult{}, ErrInvalidLetter
	}

	hit := containsLetter(s.Phrase.SecretWord, letter)
	repeated, err := s.Guessed.Record(letter)
	if err != nil {
		return GuessResult{}, err
	}

	if !repeated {
		if !hit {
			s.BadGuesses++
		}
		s.Blanks = Blanks(s.Phrase.SecretWord, s.Guessed)

		switch {
		case s.BadGuesses >= MaxBadGuesses:
			s.Status = StatusLost
		case Solved(s.Blanks):
			s.Status = StatusWon
		}
		if s.Status.Over() {
			s.EndedAt = m.now()
		}
	}

	return GuessResult{
		Session:  s.clone(),
		Letter:   phrase.Fold(letter),
		Hit:      hit,
		Repeated: repeated,
	}, nil
}

// Current returns a snapshot of the current session.
func (m *Machine) Current() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	return m.session.clone(), true
}

// Quit discards the current session.
func (m *Machine) Quit() {
	m.session = nil
}
