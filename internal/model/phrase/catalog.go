package phrase

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var seedCatalog []byte

type catalogEntry struct {
	Language string `yaml:"language"`
	Word     string `yaml:"word"`
	Usage    string `yaml:"usage"`
	Source   string `yaml:"source"`
}

type catalog struct {
	Phrases []catalogEntry `yaml:"phrases"`
}

// Seed returns the phrases bundled with the binary.
func Seed() ([]Phrase, error) {
	return Parse(seedCatalog)
}

// LoadFile reads a YAML phrase catalog from disk.
func LoadFile(path string) ([]Phrase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates every entry.
func Parse(data []byte) ([]Phrase, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode phrase catalog: %w", err)
	}
	if len(c.Phrases) == 0 {
		return nil, fmt.Errorf("%w: catalog has no phrases", ErrInvalidPhrase)
	}

	items := make([]Phrase, 0, len(c.Phrases))
	for i, entry := range c.Phrases {
		p, err := New(entry.Language, entry.Word, entry.Usage, entry.Source)
		if err != nil {
			return nil, fmt.Errorf("phrase #%d: %w", i+1, err)
		}
		items = append(items, p)
	}
	return items, nil
}
