package game

import (
	"fmt"
	"sort"

	"github.com/peterkuimelis/interdict/internal/catalog"
)

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() *Card{
	"Null Chamber":     NullChamber,
	"Meddling Mage":    MeddlingMage,
	"Nevermore":        Nevermore,
	"Conjurer's Ban":   ConjurersBan,
	"Disenchant":       Disenchant,
	"Lightning Bolt":   LightningBolt,
	"Lava Axe":         LavaAxe,
	"Divination":       Divination,
	"Grizzly Bears":    GrizzlyBears,
	"Shivan Dragon":    ShivanDragon,
	"Shivan Whelp":     ShivanWhelp,
	"Sol Ring":         SolRing,
	"Plains":           Plains,
	"Island":           Island,
	"Swamp":            Swamp,
	"Mountain":         Mountain,
	"Forest":           Forest,
	"Mishra's Factory": MishrasFactory,
}

// LookupCard looks up a card by name and returns a new instance.
// Panics if the card is not found.
func LookupCard(name string) *Card {
	card, err := FindCard(name)
	if err != nil {
		panic(err.Error())
	}
	return card
}

// FindCard is LookupCard with an error instead of a panic.
func FindCard(name string) (*Card, error) {
	ctor, ok := CardRegistry[name]
	if !ok {
		return nil, fmt.Errorf("card not found in registry: %q", name)
	}
	return ctor(), nil
}

// Info returns the catalog view of a card.
func (c *Card) Info() catalog.CardInfo {
	info := catalog.CardInfo{Name: c.Name}
	for _, t := range c.Types {
		info.Types = append(info.Types, t.String())
	}
	for _, s := range c.Supertypes {
		info.Supertypes = append(info.Supertypes, s.String())
	}
	return info
}

// RegistryInfos returns the catalog view of every registered card, by name.
func RegistryInfos() []catalog.CardInfo {
	names := make([]string, 0, len(CardRegistry))
	for name := range CardRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	infos := make([]catalog.CardInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, CardRegistry[name]().Info())
	}
	return infos
}

// DefaultCatalog is the in-memory catalog of every registered card.
func DefaultCatalog() *catalog.Memory {
	return catalog.NewMemory(RegistryInfos()...)
}
