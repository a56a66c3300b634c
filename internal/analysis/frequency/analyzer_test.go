package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestMostFrequentUnguessed(t *testing.T) {
	d, ok := Suggest("en", nil)
	assert.True(t, ok)
	assert.Equal(t, 'e', d.Letter)
	assert.Equal(t, 1, d.Rank)

	d, ok = Suggest("en", []rune("eta"))
	assert.True(t, ok)
	assert.Equal(t, 'o', d.Letter)
	assert.Equal(t, 4, d.Rank)
}

func TestSuggestPerLanguage(t *testing.T) {
	d, _ := Suggest("es", []rune("e"))
	assert.Equal(t, 'a', d.Letter)

	d, _ = Suggest("fr", []rune("É"))
	assert.Equal(t, 's', d.Letter)
}

func TestSuggestUnknownLanguageUsesEnglish(t *testing.T) {
	d, ok := Suggest("de", []rune("e"))
	assert.True(t, ok)
	assert.Equal(t, 't', d.Letter)
}

func TestSuggestExhausted(t *testing.T) {
	_, ok := Suggest("en", []rune("abcdefghijklmnopqrstuvwxyz"))
	assert.False(t, ok)
}

func TestSuggestStaysInLanguageScript(t *testing.T) {
	d, ok := Suggest("el", []rune("Α"))
	assert.True(t, ok)
	assert.Equal(t, 'ο', d.Letter)

	d, ok = Suggest("ru", nil)
	assert.True(t, ok)
	assert.Equal(t, 'о', d.Letter)

	// Georgian has no table and English letters are not Georgian.
	_, ok = Suggest("ka", nil)
	assert.False(t, ok)
}
