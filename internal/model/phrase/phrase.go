package phrase

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// WordPlaceholder marks where the secret word sits inside a usage sentence.
const WordPlaceholder = "{word}"

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInvalidPhrase       = errors.New("invalid phrase")
)

// Phrase pairs a clue sentence with the secret word to guess.
type Phrase struct {
	Language   string `json:"language"`
	SecretWord string `json:"-"`
	Usage      string `json:"usage"`
	Source     string `json:"source,omitempty"`
}

// New validates and normalizes a phrase. The secret word is lower-cased rune
// by rune, the same way guesses are, and every rune must belong to the
// language's alphabet.
func New(lang, word, usage, source string) (Phrase, error) {
	code, err := CanonicalLanguage(lang)
	if err != nil {
		return Phrase{}, err
	}

	word = strings.TrimSpace(norm.NFC.String(word))
	if word == "" {
		return Phrase{}, fmt.Errorf("%w: empty secret word", ErrInvalidPhrase)
	}
	word = strings.Map(unicode.ToLower, word)
	for _, r := range word {
		if !InAlphabet(code, r) {
			return Phrase{}, fmt.Errorf("%w: %q is not a %s letter in %q", ErrInvalidPhrase, r, code, word)
		}
	}

	usage = strings.TrimSpace(usage)
	if usage == "" {
		usage = WordPlaceholder
	}

	return Phrase{
		Language:   code,
		SecretWord: word,
		Usage:      usage,
		Source:     strings.TrimSpace(source),
	}, nil
}

// MaskedUsage renders the usage sentence with the secret word fully blanked.
func (p Phrase) MaskedUsage() string {
	mask := strings.Repeat(string(MaskRune), utf8.RuneCountInString(p.SecretWord))
	return strings.ReplaceAll(p.Usage, WordPlaceholder, mask)
}

// CanonicalLanguage reduces a language code such as "EN" or "fr-CA" to its
// base ISO 639 code.
func CanonicalLanguage(code string) (string, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return "", fmt.Errorf("%w: empty language code", ErrUnsupportedLanguage)
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return base.String(), nil
}
