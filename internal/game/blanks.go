package game

import (
	"strings"
	"unicode"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

// Blanks masks every letter of secret that has not been guessed.
// Non-letters pass through unmasked.
func Blanks(secret string, guessed Letters) string {
	var b strings.Builder
	b.Grow(len(secret))
	for _, r := range secret {
		if !unicode.IsLetter(r) || guessed.Contains(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(phrase.MaskRune)
	}
	return b.String()
}

// Solved reports whether blanks has no masked positions left.
func Solved(blanks string) bool {
	return !strings.ContainsRune(blanks, phrase.MaskRune)
}

func containsLetter(secret string, letter rune) bool {
	key := phrase.Fold(letter)
	for _, r := range secret {
		if phrase.Fold(r) == key {
			return true
		}
	}
	return false
}
