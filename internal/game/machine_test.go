package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

type stubPhrases struct {
	byLang map[string]phrase.Phrase
}

func (s stubPhrases) SelectPhrase(lang string) (phrase.Phrase, error) {
	p, ok := s.byLang[lang]
	if !ok {
		return phrase.Phrase{}, phrase.ErrUnsupportedLanguage
	}
	return p, nil
}

func newTestMachine(t *testing.T, words map[string]string) *Machine {
	t.Helper()
	byLang := make(map[string]phrase.Phrase, len(words))
	for lang, word := range words {
		p, err := phrase.New(lang, word, "clue {word}", "")
		require.NoError(t, err)
		byLang[lang] = p
	}

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return NewMachine(stubPhrases{byLang: byLang}, WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
}

func guessAll(t *testing.T, m *Machine, letters string) GuessResult {
	t.Helper()
	var res GuessResult
	for _, r := range letters {
		var err error
		res, err = m.Guess(string(r))
		require.NoError(t, err)
	}
	return res
}

func TestStartInitializesSession(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "hamlet"})

	s, err := m.Start(" Ana ", "en")
	require.NoError(t, err)

	assert.Equal(t, "Ana", s.PlayerName)
	assert.Equal(t, StatusPlaying, s.Status)
	assert.Equal(t, 0, s.BadGuesses)
	assert.Equal(t, "______", s.Blanks)
	assert.Zero(t, s.Guessed.Len())
	assert.False(t, s.StartedAt.IsZero())
	assert.True(t, s.EndedAt.IsZero())
}

func TestPartialGuessesRevealLetters(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "hamlet"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	res := guessAll(t, m, "hmlt")

	assert.Equal(t, "h_ml_t", res.Blanks)
	assert.Equal(t, StatusPlaying, res.Status)
	assert.Equal(t, 0, res.BadGuesses)
	assert.Equal(t, "hmlt", res.Guessed.String())
}

func TestSixWrongGuessesLose(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	res := guessAll(t, m, "xyzqwv")

	assert.Equal(t, MaxBadGuesses, res.BadGuesses)
	assert.Equal(t, StatusLost, res.Status)
	assert.False(t, res.EndedAt.IsZero())
}

func TestCompletingWordWins(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "go"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	res, err := m.Guess("g")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, res.Status)

	res, err = m.Guess("O")
	require.NoError(t, err)
	assert.Equal(t, "go", res.Blanks)
	assert.Equal(t, StatusWon, res.Status)
	assert.True(t, res.Hit)
	assert.Equal(t, time.Second, res.EndedAt.Sub(res.StartedAt))
}

func TestRepeatedGuessIsNoOp(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	first, err := m.Guess("x")
	require.NoError(t, err)
	assert.False(t, first.Repeated)
	assert.Equal(t, 1, first.BadGuesses)

	again, err := m.Guess("X")
	require.NoError(t, err)
	assert.True(t, again.Repeated)
	assert.Equal(t, 1, again.BadGuesses)
	assert.Equal(t, StatusPlaying, again.Status)

	hit, err := m.Guess("c")
	require.NoError(t, err)
	hitAgain, err := m.Guess("c")
	require.NoError(t, err)
	assert.True(t, hitAgain.Repeated)
	assert.Equal(t, hit.Blanks, hitAgain.Blanks)
	assert.Equal(t, 1, hitAgain.BadGuesses)
}

func TestGuessAfterGameOverIsRejected(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "go"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)
	won := guessAll(t, m, "go")
	require.Equal(t, StatusWon, won.Status)

	_, err = m.Guess("z")
	require.ErrorIs(t, err, ErrGameAlreadyOver)

	after, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, won.Session, after)
}

func TestInvalidGuessLeavesStateUnchanged(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat", "es": "niño"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	for _, bad := range []string{"", "ab", "3", "é", "ñ"} {
		_, err := m.Guess(bad)
		assert.ErrorIs(t, err, ErrInvalidLetter, bad)
	}

	s, _ := m.Current()
	assert.Equal(t, 0, s.BadGuesses)
	assert.Zero(t, s.Guessed.Len())

	_, err = m.PlayAgain("es")
	require.NoError(t, err)
	res, err := m.Guess("ñ")
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, "n_ñ_", res.Blanks)
}

func TestAccentFoldedGuessRevealsAccentedLetter(t *testing.T) {
	m := newTestMachine(t, map[string]string{"fr": "forêt"})
	_, err := m.Start("Zoé", "fr")
	require.NoError(t, err)

	res, err := m.Guess("e")
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, "___ê_", res.Blanks)

	res, err = m.Guess("ê")
	require.NoError(t, err)
	assert.True(t, res.Repeated)
}

func TestCaseOnlyGuessMatchesInUnregisteredLanguages(t *testing.T) {
	tr := newTestMachine(t, map[string]string{"tr": "KIZ"})
	s, err := tr.Start("Ana", "tr")
	require.NoError(t, err)
	assert.Equal(t, "kiz", s.Phrase.SecretWord)

	res, err := tr.Guess("I")
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, "_i_", res.Blanks)
	assert.Equal(t, 0, res.BadGuesses)

	res = guessAll(t, tr, "KZ")
	assert.Equal(t, StatusWon, res.Status)

	el := newTestMachine(t, map[string]string{"el": "ΟΔΟΣ"})
	_, err = el.Start("Ana", "el")
	require.NoError(t, err)

	res, err = el.Guess("Σ")
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, "___σ", res.Blanks)
	assert.Equal(t, 0, res.BadGuesses)

	_, err = el.Guess("a")
	require.ErrorIs(t, err, ErrInvalidLetter)

	res = guessAll(t, el, "οΔ")
	assert.Equal(t, StatusWon, res.Status)
	assert.Equal(t, 0, res.BadGuesses)
}

func TestFinalSigmaMatchesSigma(t *testing.T) {
	m := newTestMachine(t, map[string]string{"el": "οδος"})
	_, err := m.Start("Ana", "el")
	require.NoError(t, err)

	res, err := m.Guess("Σ")
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, "___ς", res.Blanks)

	res, err = m.Guess("ς")
	require.NoError(t, err)
	assert.True(t, res.Repeated)
	assert.Equal(t, 0, res.BadGuesses)
}

func TestBadGuessesNeverDecreaseOrExceedBudget(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "hamlet"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	prev := 0
	for _, r := range "abcdefghijklmnopqrstuvwxyz" {
		res, err := m.Guess(string(r))
		if err != nil {
			require.ErrorIs(t, err, ErrGameAlreadyOver)
			break
		}
		assert.GreaterOrEqual(t, res.BadGuesses, prev)
		assert.LessOrEqual(t, res.BadGuesses, MaxBadGuesses)
		prev = res.BadGuesses
	}

	s, _ := m.Current()
	assert.True(t, s.Status.Over())
}

func TestStartUnsupportedLanguageKeepsSession(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat"})

	_, err := m.Start("Ana", "de")
	require.ErrorIs(t, err, phrase.ErrUnsupportedLanguage)
	_, ok := m.Current()
	assert.False(t, ok)

	_, err = m.Start("Ana", "en")
	require.NoError(t, err)
	guessAll(t, m, "c")

	_, err = m.Start("Ana", "de")
	require.ErrorIs(t, err, phrase.ErrUnsupportedLanguage)
	s, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "c__", s.Blanks)
}

func TestPlayAgainReusesPlayerName(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat", "fr": "forêt"})

	_, err := m.PlayAgain("en")
	require.ErrorIs(t, err, ErrNoSession)

	_, err = m.Start("Ana", "en")
	require.NoError(t, err)
	guessAll(t, m, "cat")

	s, err := m.PlayAgain("fr")
	require.NoError(t, err)
	assert.Equal(t, "Ana", s.PlayerName)
	assert.Equal(t, "fr", s.Phrase.Language)
	assert.Equal(t, StatusPlaying, s.Status)
	assert.Zero(t, s.Guessed.Len())
}

func TestGuessWithoutSession(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat"})
	_, err := m.Guess("a")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestQuitDiscardsSession(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	m.Quit()
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestCurrentReturnsSnapshot(t *testing.T) {
	m := newTestMachine(t, map[string]string{"en": "cat"})
	_, err := m.Start("Ana", "en")
	require.NoError(t, err)

	snap, _ := m.Current()
	_, err = m.Guess("c")
	require.NoError(t, err)

	assert.Zero(t, snap.Guessed.Len())
	assert.Equal(t, "___", snap.Blanks)
}
