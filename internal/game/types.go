package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Phase int

const (
	PhaseNone Phase = iota
	PhaseBeginning
	PhaseMain
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBeginning:
		return "Beginning"
	case PhaseMain:
		return "Main Phase"
	case PhaseEnd:
		return "End Phase"
	default:
		return "None"
	}
}

type CardType int

const (
	CardTypeLand CardType = iota
	CardTypeCreature
	CardTypeArtifact
	CardTypeEnchantment
	CardTypeInstant
	CardTypeSorcery
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeLand:
		return "Land"
	case CardTypeCreature:
		return "Creature"
	case CardTypeArtifact:
		return "Artifact"
	case CardTypeEnchantment:
		return "Enchantment"
	case CardTypeInstant:
		return "Instant"
	case CardTypeSorcery:
		return "Sorcery"
	default:
		return "Unknown"
	}
}

type Supertype int

const (
	SupertypeBasic Supertype = iota
	SupertypeLegendary
	SupertypeWorld
)

func (s Supertype) String() string {
	switch s {
	case SupertypeBasic:
		return "Basic"
	case SupertypeLegendary:
		return "Legendary"
	case SupertypeWorld:
		return "World"
	default:
		return "Unknown"
	}
}

// --- Card definition (static, from registry) ---

type Card struct {
	Name        string
	Description string
	Types       []CardType
	Supertypes  []Supertype
	Subtypes    []string // e.g. "Dragon", "Human Wizard"
	Power       int
	Toughness   int

	// Abilities are instantiated for each object of this card. Permanent
	// abilities are created when it enters the battlefield; spell abilities
	// (TriggerOnResolve) when it resolves.
	Abilities []AbilityDef
}

func (c *Card) String() string {
	return c.Name
}

// HasType reports whether the card has the given card type.
func (c *Card) HasType(t CardType) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// HasSupertype reports whether the card has the given supertype.
func (c *Card) HasSupertype(s Supertype) bool {
	for _, st := range c.Supertypes {
		if st == s {
			return true
		}
	}
	return false
}

// IsLand reports whether the card is played rather than cast.
func (c *Card) IsLand() bool {
	return c.HasType(CardTypeLand)
}

// IsPermanent reports whether the card stays on the battlefield when it resolves.
func (c *Card) IsPermanent() bool {
	return !c.HasType(CardTypeInstant) && !c.HasType(CardTypeSorcery)
}

// TypeLine returns e.g. "World Enchantment", with any subtypes after a dash.
func (c *Card) TypeLine() string {
	var parts []string
	for _, s := range c.Supertypes {
		parts = append(parts, s.String())
	}
	for _, t := range c.Types {
		parts = append(parts, t.String())
	}
	line := strings.Join(parts, " ")
	if len(c.Subtypes) > 0 {
		line += " — " + strings.Join(c.Subtypes, " ")
	}
	return line
}

// --- Zone types ---

type ZoneType int

const (
	ZoneLibrary ZoneType = iota
	ZoneHand
	ZoneStack
	ZoneBattlefield
	ZoneGraveyard
	ZoneExile
)

func (z ZoneType) String() string {
	switch z {
	case ZoneLibrary:
		return "Library"
	case ZoneHand:
		return "Hand"
	case ZoneStack:
		return "Stack"
	case ZoneBattlefield:
		return "Battlefield"
	case ZoneGraveyard:
		return "Graveyard"
	case ZoneExile:
		return "Exile"
	default:
		return "Unknown"
	}
}

// --- Objects ---

// ObjectID identifies a card object in the match arena. It is stable for the
// whole match, across zone changes.
type ObjectID int

// ObjectRef names one incarnation of an object: every zone change bumps the
// object's zone change counter, so a ref taken before the change no longer
// resolves afterwards. Abilities and events hold refs, never *Object.
type ObjectRef struct {
	ID  ObjectID
	ZCC int
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("#%d.%d", r.ID, r.ZCC)
}

// IsZero reports whether the ref is unset.
func (r ObjectRef) IsZero() bool {
	return r.ID == 0
}

// Object is the runtime instance of a card in a match.
type Object struct {
	Card       *Card
	ID         ObjectID
	Owner      int // player index (0 or 1) who owns this card
	Controller int // player index currently controlling this object

	Zone ZoneType
	ZCC  int // zone change counter

	TurnEntered int

	// Info holds player-visible annotations keyed by tag, e.g. "Named card: Fireball".
	Info map[string]string
}

// Ref returns the reference to the object's current incarnation.
func (o *Object) Ref() ObjectRef {
	return ObjectRef{ID: o.ID, ZCC: o.ZCC}
}

// Name returns the card name, or "" for a nil object.
func (o *Object) Name() string {
	if o == nil || o.Card == nil {
		return ""
	}
	return o.Card.Name
}

// LogName returns the display name used in log lines.
func (o *Object) LogName() string {
	if o == nil {
		return "(gone)"
	}
	return o.Card.Name
}

// AddInfo attaches a player-visible annotation.
func (o *Object) AddInfo(key, value string) {
	if o.Info == nil {
		o.Info = make(map[string]string)
	}
	o.Info[key] = value
}

func (o *Object) String() string {
	if o == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s [%s %s]", o.Card.Name, o.Ref(), o.Zone)
}

// --- Action types ---

type ActionType int

const (
	ActionPlayLand ActionType = iota
	ActionCast
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayLand:
		return "Play Land"
	case ActionCast:
		return "Cast"
	case ActionEndTurn:
		return "End Turn"
	default:
		return "Unknown"
	}
}

// Action represents a player action with all necessary details.
type Action struct {
	Type   ActionType
	Player int
	Card   *Object // card being played/cast
	Desc   string  // human-readable description
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}
