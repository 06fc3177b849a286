// Package catalog lists the card names a player may legally name.
package catalog

import (
	"context"
	"slices"
	"strings"
)

// CardInfo is the catalog's view of a card: just enough to decide which
// naming classes admit it.
type CardInfo struct {
	Name       string   `yaml:"name" json:"name"`
	Types      []string `yaml:"types" json:"types"`
	Supertypes []string `yaml:"supertypes,omitempty" json:"supertypes,omitempty"`
}

// HasType reports whether the card has the given card type (e.g. "Land").
func (ci CardInfo) HasType(t string) bool {
	return slices.Contains(ci.Types, t)
}

// HasSupertype reports whether the card has the given supertype (e.g. "Basic").
func (ci CardInfo) HasSupertype(s string) bool {
	return slices.Contains(ci.Supertypes, s)
}

// Catalog lists legal names for a naming class. Names are returned in a
// stable order and compared later by exact string equality.
type Catalog interface {
	Names(ctx context.Context, class NameClass) ([]string, error)
}

// Memory is an in-memory catalog built from a fixed set of cards.
type Memory struct {
	cards []CardInfo
}

// NewMemory builds a catalog from the given cards. Duplicate names keep the
// first entry; the result is ordered by name.
func NewMemory(cards ...CardInfo) *Memory {
	seen := make(map[string]bool, len(cards))
	var unique []CardInfo
	for _, c := range cards {
		name := strings.TrimSpace(c.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		c.Name = name
		unique = append(unique, c)
	}
	slices.SortFunc(unique, func(a, b CardInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &Memory{cards: unique}
}

// Names implements Catalog.
func (m *Memory) Names(ctx context.Context, class NameClass) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Filter(m.cards, class), nil
}

// Cards returns a copy of every card in the catalog.
func (m *Memory) Cards() []CardInfo {
	return slices.Clone(m.cards)
}

// Filter returns the names of the cards admitted by class, preserving order.
func Filter(cards []CardInfo, class NameClass) []string {
	var names []string
	for _, c := range cards {
		if class.Admits(c) {
			names = append(names, c.Name)
		}
	}
	return names
}
