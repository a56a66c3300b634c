package frequency

import (
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

// Letters ordered from most to least frequent in running text, folded to
// their unaccented form.
var tables = map[string]string{
	"en": "etaoinshrdlcumwfgypbvkjxqz",
	"fr": "esaitnrulodcmpvqfbghjxyzkw",
	"es": "eaosrnidlctumpbgvyqhfzjxkw",
	"el": "αοιετσνηυρπκμλωδγχθφβξζψ",
	"ru": "оеаинтсрвлкмдпуяыьгзбчхжшюцщэфъ",
}

const fallbackLang = "en"

// Decision is the suggested letter and its rank in the language table.
type Decision struct {
	Letter rune
	Rank   int
}

// Suggest returns the most frequent letter of lang not yet in guessed.
// Languages without a table borrow the English one, limited to letters of
// their alphabet. ok is false when no candidate is left.
func Suggest(lang string, guessed []rune) (Decision, bool) {
	table, found := tables[lang]
	if !found {
		table = tables[fallbackLang]
	}

	used := make(map[rune]struct{}, len(guessed))
	for _, r := range guessed {
		used[phrase.Fold(r)] = struct{}{}
	}

	rank := 0
	for _, r := range table {
		rank++
		if !phrase.InAlphabet(lang, r) {
			continue
		}
		if _, seen := used[phrase.Fold(r)]; seen {
			continue
		}
		return Decision{Letter: phrase.Fold(r), Rank: rank}, true
	}
	return Decision{}, false
}
