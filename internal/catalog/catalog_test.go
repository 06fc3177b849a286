package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCards = []CardInfo{
	{Name: "Shivan Dragon", Types: []string{"Creature"}},
	{Name: "Island", Types: []string{"Land"}, Supertypes: []string{"Basic"}},
	{Name: "Fireball", Types: []string{"Sorcery"}},
	{Name: "Mishra's Factory", Types: []string{"Land"}},
	{Name: "Counterspell", Types: []string{"Instant"}},
}

func TestMemoryNamesByClass(t *testing.T) {
	cat := NewMemory(testCards...)
	ctx := context.Background()

	names, err := cat.Names(ctx, NonBasicLandName{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Counterspell", "Fireball", "Mishra's Factory", "Shivan Dragon"}, names)

	names, err = cat.Names(ctx, NonLandName{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Counterspell", "Fireball", "Shivan Dragon"}, names)

	names, err = cat.Names(ctx, AnyName{})
	require.NoError(t, err)
	assert.Len(t, names, 5)
}

func TestMemoryDeduplicatesAndSorts(t *testing.T) {
	cat := NewMemory(
		CardInfo{Name: "Zap", Types: []string{"Instant"}},
		CardInfo{Name: " Zap ", Types: []string{"Creature"}},
		CardInfo{Name: "", Types: []string{"Instant"}},
		CardInfo{Name: "Abundance", Types: []string{"Enchantment"}},
	)
	cards := cat.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "Abundance", cards[0].Name)
	assert.Equal(t, "Zap", cards[1].Name)
	assert.True(t, cards[1].HasType("Instant"), "first entry for a name wins")
}

func TestMemoryNamesHonorsContext(t *testing.T) {
	cat := NewMemory(testCards...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cat.Names(ctx, AnyName{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseClass(t *testing.T) {
	for _, c := range Classes() {
		got, err := ParseClass(c.Key())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseClass("planeswalker")
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	src := `
cards:
  - name: Shivan Dragon
    types: [Creature]
  - name: Plains
    types: [Land]
    supertypes: [Basic]
`
	cat, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)

	names, err := cat.Names(context.Background(), NonBasicLandName{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shivan Dragon"}, names)
}

func TestLoadYAMLRejectsUnnamedEntries(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("cards:\n  - types: [Creature]\n"))
	assert.Error(t, err)
}
