package phrase

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"
)

// Rand is the randomness source used to pick phrases.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Store exposes phrase selection for the game engine and HTTP handlers.
type Store interface {
	Languages() []string
	Count(lang string) int
	SelectPhrase(lang string) (Phrase, error)
}

// MemoryStore implements Store with in-memory slices grouped by language.
type MemoryStore struct {
	mu     sync.Mutex
	rng    Rand
	byLang map[string][]Phrase
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied phrases.
// A nil rng falls back to a time-seeded source.
func NewMemoryStore(items []Phrase, rng Rand) *MemoryStore {
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}

	byLang := make(map[string][]Phrase)
	for _, item := range items {
		byLang[item.Language] = append(byLang[item.Language], item)
	}

	return &MemoryStore{rng: rng, byLang: byLang}
}

// Languages returns the registered language codes in sorted order.
func (s *MemoryStore) Languages() []string {
	langs := make([]string, 0, len(s.byLang))
	for lang := range s.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Count returns how many phrases are registered for lang.
func (s *MemoryStore) Count(lang string) int {
	code, err := CanonicalLanguage(lang)
	if err != nil {
		return 0
	}
	return len(s.byLang[code])
}

// SelectPhrase picks a phrase for lang uniformly at random.
func (s *MemoryStore) SelectPhrase(lang string) (Phrase, error) {
	code, err := CanonicalLanguage(lang)
	if err != nil {
		return Phrase{}, err
	}

	items := s.byLang[code]
	if len(items) == 0 {
		return Phrase{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	s.mu.Lock()
	idx := s.rng.IntN(len(items))
	s.mu.Unlock()

	return items[idx], nil
}
