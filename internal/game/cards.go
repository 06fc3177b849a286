package game

import "github.com/peterkuimelis/interdict/internal/catalog"

// NullChamber: World Enchantment. As it enters, you and an opponent each
// choose a card name other than a basic land card name. Spells with the
// chosen names can't be cast and lands with the chosen names can't be played.
func NullChamber() *Card {
	return &Card{
		Name: "Null Chamber",
		Description: "As Null Chamber enters the battlefield, you and an opponent each choose a card name other than a basic land card name. " +
			"Spells with the chosen names can't be cast and lands with the chosen names can't be played.",
		Types:      []CardType{CardTypeEnchantment},
		Supertypes: []Supertype{SupertypeWorld},
		Abilities: []AbilityDef{
			{
				Trigger:  TriggerAsEnters,
				Duration: DurationWhileOnBattlefield,
				Effects: []Effect{
					&ChooseNameEffect{Class: catalog.NonBasicLandName{}, Chooser: ChooserController, Tag: TagNamedCard},
					&ChooseNameEffect{Class: catalog.NonBasicLandName{}, Chooser: ChooserOpponent, Tag: TagNamedCardOpponent},
				},
			},
			{
				Trigger:  TriggerStatic,
				Duration: DurationWhileOnBattlefield,
				Effects: []Effect{
					&CantPlayNamedEffect{
						Events: []EventType{EventCastSpell, EventPlayLand},
						Tags:   []string{TagNamedCard, TagNamedCardOpponent},
					},
				},
			},
		},
	}
}

// namedSpellLock is the as-enters nonland naming plus static cast lock shared
// by Meddling Mage and Nevermore.
func namedSpellLock() []AbilityDef {
	return []AbilityDef{
		{
			Trigger:  TriggerAsEnters,
			Duration: DurationWhileOnBattlefield,
			Effects: []Effect{
				&ChooseNameEffect{Class: catalog.NonLandName{}, Chooser: ChooserController, Tag: TagNamedCard},
			},
		},
		{
			Trigger:  TriggerStatic,
			Duration: DurationWhileOnBattlefield,
			Effects: []Effect{
				&CantPlayNamedEffect{Events: []EventType{EventCastSpell}, Tags: []string{TagNamedCard}},
			},
		},
	}
}

// MeddlingMage: 2/2 Human Wizard. As it enters, choose a nonland card name.
// Spells with the chosen name can't be cast.
func MeddlingMage() *Card {
	return &Card{
		Name:        "Meddling Mage",
		Description: "As Meddling Mage enters the battlefield, choose a nonland card name. Spells with the chosen name can't be cast.",
		Types:       []CardType{CardTypeCreature},
		Subtypes:    []string{"Human", "Wizard"},
		Power:       2,
		Toughness:   2,
		Abilities:   namedSpellLock(),
	}
}

// Nevermore: Enchantment version of Meddling Mage.
func Nevermore() *Card {
	return &Card{
		Name:        "Nevermore",
		Description: "As Nevermore enters the battlefield, choose a nonland card name. Spells with the chosen name can't be cast.",
		Types:       []CardType{CardTypeEnchantment},
		Abilities:   namedSpellLock(),
	}
}

// ConjurersBan: Sorcery. Choose a card name. Until your next turn, spells
// with the chosen name can't be cast. Draw a card.
func ConjurersBan() *Card {
	return &Card{
		Name:        "Conjurer's Ban",
		Description: "Choose a card name. Until your next turn, spells with the chosen name can't be cast. Draw a card.",
		Types:       []CardType{CardTypeSorcery},
		Abilities: []AbilityDef{
			{
				Trigger:  TriggerOnResolve,
				Duration: DurationUntilYourNextTurn,
				Effects: []Effect{
					&ChooseNameEffect{Class: catalog.AnyName{}, Chooser: ChooserController, Tag: TagNamedCard},
					&CantPlayNamedEffect{Events: []EventType{EventCastSpell}, Tags: []string{TagNamedCard}},
					&DrawCardsEffect{N: 1},
				},
			},
		},
	}
}

// Disenchant: Instant. Destroy target artifact or enchantment.
func Disenchant() *Card {
	return &Card{
		Name:        "Disenchant",
		Description: "Destroy target artifact or enchantment.",
		Types:       []CardType{CardTypeInstant},
		Abilities: []AbilityDef{
			{
				Trigger:  TriggerOnResolve,
				Duration: DurationPermanent,
				Effects: []Effect{
					&DestroyPermanentEffect{
						What: "artifact or enchantment",
						Filter: func(c *Card) bool {
							return c.HasType(CardTypeArtifact) || c.HasType(CardTypeEnchantment)
						},
					},
				},
			},
		},
	}
}

// burn builds a spell that deals fixed damage to the opponent.
func burn(name string, t CardType, amount int, desc string) *Card {
	return &Card{
		Name:        name,
		Description: desc,
		Types:       []CardType{t},
		Abilities: []AbilityDef{
			{
				Trigger:  TriggerOnResolve,
				Duration: DurationPermanent,
				Effects:  []Effect{&DamageOpponentEffect{Amount: amount}},
			},
		},
	}
}

// LightningBolt: Instant. 3 damage to target opponent.
func LightningBolt() *Card {
	return burn("Lightning Bolt", CardTypeInstant, 3, "Lightning Bolt deals 3 damage to target opponent.")
}

// LavaAxe: Sorcery. 5 damage to target opponent.
func LavaAxe() *Card {
	return burn("Lava Axe", CardTypeSorcery, 5, "Lava Axe deals 5 damage to target opponent.")
}

// Divination: Sorcery. Draw two cards.
func Divination() *Card {
	return &Card{
		Name:        "Divination",
		Description: "Draw two cards.",
		Types:       []CardType{CardTypeSorcery},
		Abilities: []AbilityDef{
			{
				Trigger:  TriggerOnResolve,
				Duration: DurationPermanent,
				Effects:  []Effect{&DrawCardsEffect{N: 2}},
			},
		},
	}
}

func creature(name string, subtypes []string, power, toughness int) *Card {
	return &Card{
		Name:      name,
		Types:     []CardType{CardTypeCreature},
		Subtypes:  subtypes,
		Power:     power,
		Toughness: toughness,
	}
}

// GrizzlyBears: vanilla 2/2 Bear.
func GrizzlyBears() *Card { return creature("Grizzly Bears", []string{"Bear"}, 2, 2) }

// ShivanDragon: vanilla 5/5 Dragon.
func ShivanDragon() *Card { return creature("Shivan Dragon", []string{"Dragon"}, 5, 5) }

// ShivanWhelp: vanilla 1/2 Dragon.
func ShivanWhelp() *Card { return creature("Shivan Whelp", []string{"Dragon"}, 1, 2) }

// SolRing: vanilla artifact; a Disenchant target.
func SolRing() *Card {
	return &Card{Name: "Sol Ring", Types: []CardType{CardTypeArtifact}}
}

func basicLand(name, subtype string) *Card {
	return &Card{
		Name:       name,
		Types:      []CardType{CardTypeLand},
		Supertypes: []Supertype{SupertypeBasic},
		Subtypes:   []string{subtype},
	}
}

func Plains() *Card   { return basicLand("Plains", "Plains") }
func Island() *Card   { return basicLand("Island", "Island") }
func Swamp() *Card    { return basicLand("Swamp", "Swamp") }
func Mountain() *Card { return basicLand("Mountain", "Mountain") }
func Forest() *Card   { return basicLand("Forest", "Forest") }

// MishrasFactory: nonbasic land, nameable by Null Chamber.
func MishrasFactory() *Card {
	return &Card{Name: "Mishra's Factory", Types: []CardType{CardTypeLand}}
}
