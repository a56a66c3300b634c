package game

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

// Letters is an insertion-ordered set of guessed letters. Letters are keyed
// by their folded form, so 'E', 'e' and 'é' count as the same guess.
// The zero value is ready to use.
type Letters struct {
	order []rune
	seen  map[rune]struct{}
}

// ParseLetter turns raw input into a single letter rune.
func ParseLetter(input string) (rune, error) {
	input = norm.NFC.String(strings.TrimSpace(input))
	if utf8.RuneCountInString(input) != 1 {
		return 0, ErrInvalidLetter
	}
	r, _ := utf8.DecodeRuneInString(input)
	if !unicode.IsLetter(r) {
		return 0, ErrInvalidLetter
	}
	return r, nil
}

// Record adds letter to the set and reports whether it was already there.
func (l *Letters) Record(letter rune) (bool, error) {
	if !unicode.IsLetter(letter) {
		return false, ErrInvalidLetter
	}

	key := phrase.Fold(letter)
	if _, ok := l.seen[key]; ok {
		return true, nil
	}
	if l.seen == nil {
		l.seen = make(map[rune]struct{})
	}
	l.seen[key] = struct{}{}
	l.order = append(l.order, key)
	return false, nil
}

// Contains reports whether letter, or a letter folding to the same key, was guessed.
func (l Letters) Contains(letter rune) bool {
	_, ok := l.seen[phrase.Fold(letter)]
	return ok
}

// All returns the guessed letters in the order they were first recorded.
func (l Letters) All() []rune {
	return append([]rune(nil), l.order...)
}

// Len returns the number of distinct guesses.
func (l Letters) Len() int {
	return len(l.order)
}

// String joins the guesses in order, e.g. "rlstine".
func (l Letters) String() string {
	return string(l.order)
}

// Clone returns an independent copy.
func (l Letters) Clone() Letters {
	if l.seen == nil {
		return Letters{}
	}
	seen := make(map[rune]struct{}, len(l.seen))
	for k := range l.seen {
		seen[k] = struct{}{}
	}
	return Letters{order: l.All(), seen: seen}
}
