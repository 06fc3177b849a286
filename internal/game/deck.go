package game

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks" json:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name" json:"name"`
	Cards []CardEntry `yaml:"cards" json:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
}

// Build instantiates the deck's cards from the registry.
func (d DeckEntry) Build() ([]*Card, error) {
	var cards []*Card
	for _, entry := range d.Cards {
		if entry.Count < 0 {
			return nil, fmt.Errorf("deck %q: negative count for %q", d.Name, entry.Name)
		}
		for i := 0; i < entry.Count; i++ {
			card, err := FindCard(entry.Name)
			if err != nil {
				return nil, fmt.Errorf("deck %q: %w", d.Name, err)
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// ReadDeckFile decodes a YAML deck file.
func ReadDeckFile(r io.Reader) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.NewDecoder(r).Decode(&df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// LoadDeckFile reads and decodes the deck file at path.
func LoadDeckFile(path string) (*DeckFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDeckFile(f)
}

// Deck returns the Nth deck (1-indexed), built.
func (df *DeckFile) Deck(n int) (string, []*Card, error) {
	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	deck := df.Decks[n-1]
	cards, err := deck.Build()
	if err != nil {
		return "", nil, err
	}
	return deck.Name, cards, nil
}
