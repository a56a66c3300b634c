package phrase

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaskRune replaces letters that have not been guessed yet.
const MaskRune = '_'

// extra letters accepted on top of a-z.
var alphabets = map[string]string{
	"en": "",
	"fr": "àâæçéèêëîïôœùûüÿ",
	"es": "áéíñóúü",
}

// scripts restricts languages without a registered alphabet to the letters
// of their writing system.
var scripts = map[string]*unicode.RangeTable{
	"Latn": unicode.Latin,
	"Grek": unicode.Greek,
	"Cyrl": unicode.Cyrillic,
	"Armn": unicode.Armenian,
	"Geor": unicode.Georgian,
	"Hebr": unicode.Hebrew,
	"Arab": unicode.Arabic,
	"Deva": unicode.Devanagari,
	"Thai": unicode.Thai,
}

// InAlphabet reports whether r is a letter of lang. Languages without a
// registered alphabet accept the letters of their script, or any Unicode
// letter when the script is unknown.
func InAlphabet(lang string, r rune) bool {
	r = unicode.ToLower(r)
	extra, ok := alphabets[lang]
	if !ok {
		if !unicode.IsLetter(r) {
			return false
		}
		if table := scriptOf(lang); table != nil {
			return unicode.Is(table, r)
		}
		return true
	}
	if r >= 'a' && r <= 'z' {
		return true
	}
	for _, e := range extra {
		if e == r {
			return true
		}
	}
	return false
}

func scriptOf(lang string) *unicode.RangeTable {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	script, confidence := tag.Script()
	if confidence == language.No {
		return nil
	}
	return scripts[script.String()]
}

// Fold case-folds r and strips its diacritics, so 'É' and 'é' both fold to
// 'e' and 'Σ' and 'ς' both fold to 'σ'. Secret letters and guesses are
// compared by their folded form only.
func Fold(r rune) rune {
	r = unicode.ToLower(r)
	if r < utf8.RuneSelf {
		return r
	}

	// A Caser keeps state, so each call builds its own chain.
	t := transform.Chain(cases.Fold(), norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, string(r))
	if err != nil || utf8.RuneCountInString(s) != 1 {
		return r
	}
	folded, _ := utf8.DecodeRuneInString(s)
	return folded
}
