package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive the game.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int

	// For ChooseCards prompts
	cardChoices []ScriptedCardChoice
	cardPos     int

	// For ChooseName prompts
	names   []ScriptedName
	namePos int
	offered [][]string // options of every ChooseName prompt seen
}

type ScriptedAction struct {
	// Match by ActionType; picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
}

type ScriptedCardChoice struct {
	// Choose cards by name
	Names []string
}

type ScriptedName struct {
	Name    string
	Decline bool
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddAction(actionType ActionType, cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName})
	return sc
}

func (sc *ScriptedController) AddCast(cardName string) *ScriptedController {
	return sc.AddAction(ActionCast, cardName)
}

func (sc *ScriptedController) AddEndTurn() *ScriptedController {
	return sc.AddAction(ActionEndTurn, "")
}

func (sc *ScriptedController) AddCardChoice(names ...string) *ScriptedController {
	sc.cardChoices = append(sc.cardChoices, ScriptedCardChoice{Names: names})
	return sc
}

func (sc *ScriptedController) AddName(name string) *ScriptedController {
	sc.names = append(sc.names, ScriptedName{Name: name})
	return sc
}

func (sc *ScriptedController) AddDecline() *ScriptedController {
	sc.names = append(sc.names, ScriptedName{Decline: true})
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	if sc.pos < len(sc.actions) {
		// Peek at next scripted action; only consume it if it matches an available action.
		// This allows scripts to span multiple turns without needing to explicitly script "EndTurn".
		scripted := sc.actions[sc.pos]
		for _, a := range actions {
			if a.Type != scripted.Type {
				continue
			}
			if scripted.CardName != "" && (a.Card == nil || a.Card.Card.Name != scripted.CardName) {
				continue
			}
			sc.pos++
			return a, nil
		}
	}

	for _, a := range actions {
		if a.Type == ActionEndTurn {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

func (sc *ScriptedController) ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*Object, min, max int) ([]*Object, error) {
	if sc.cardPos >= len(sc.cardChoices) {
		// Default: choose the first min candidates
		if min > len(candidates) {
			min = len(candidates)
		}
		return candidates[:min], nil
	}

	choice := sc.cardChoices[sc.cardPos]
	sc.cardPos++

	var result []*Object
	for _, name := range choice.Names {
		for _, c := range candidates {
			if c.Card.Name == name {
				result = append(result, c)
				break
			}
		}
	}

	if len(result) < min {
		return nil, fmt.Errorf("[%s] card choice: wanted %v but only found %d in candidates", sc.name, choice.Names, len(result))
	}
	return result, nil
}

// ChooseName answers with the next scripted name. An unscripted prompt is declined.
func (sc *ScriptedController) ChooseName(ctx context.Context, state *GameState, choice *Choice) (bool, error) {
	sc.offered = append(sc.offered, choice.Options())
	if sc.namePos >= len(sc.names) {
		return false, nil
	}
	scripted := sc.names[sc.namePos]
	sc.namePos++
	if scripted.Decline {
		return false, nil
	}
	if err := choice.Set(scripted.Name); err != nil {
		return false, fmt.Errorf("[%s] %w", sc.name, err)
	}
	return true, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test card helpers ---

func vanillaCreature(name string) *Card {
	return &Card{Name: name, Types: []CardType{CardTypeCreature}, Power: 1, Toughness: 1}
}

func vanillaInstant(name string) *Card {
	return &Card{Name: name, Types: []CardType{CardTypeInstant}}
}

func fillerCard() *Card {
	return vanillaCreature("Filler Token")
}

// makePaddedDeck creates a deck with specified cards on top (drawn first) and filler to reach a minimum size.
// topCards are ordered so that index 0 is drawn first.
func makePaddedDeck(topCards []*Card, minSize int) []*Card {
	filler := fillerCard()
	deck := make([]*Card, 0, minSize)

	// Filler goes at bottom (drawn last)
	for i := 0; i < minSize-len(topCards); i++ {
		deck = append(deck, filler)
	}

	// Top cards go at end of slice (drawn first); reverse order so index 0 is drawn first
	for i := len(topCards) - 1; i >= 0; i-- {
		deck = append(deck, topCards[i])
	}

	return deck
}

// catalogOf builds a name catalog from the registry plus extra test cards.
func catalogOf(extra ...*Card) *catalog.Memory {
	infos := RegistryInfos()
	for _, c := range extra {
		infos = append(infos, c.Info())
	}
	return catalog.NewMemory(infos...)
}

// runMatchToCompletion runs a match and returns it with its logger for inspection.
func runMatchToCompletion(t *testing.T, cfg MatchConfig, p0, p1 *ScriptedController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true // deterministic tests
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 10
	}

	match := NewMatch(cfg, p0, p1)

	winner, err := match.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Match error: %v", err)
	}

	t.Logf("Match result: winner=%d (%s)", winner, match.State.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))

	return match, logger
}

// newTestMatch builds a match whose game hasn't started, for driving
// individual engine steps directly.
func newTestMatch(t *testing.T, cat catalog.Catalog, p0, p1 PlayerController) *Match {
	t.Helper()
	m := NewMatch(MatchConfig{ID: "test", Catalog: cat, NoShuffle: true, Seed: 1}, p0, p1)
	m.State.Turn = 1
	m.State.Phase = PhaseMain
	return m
}

// putOnBattlefield creates card for player and resolves it as if cast.
func putOnBattlefield(t *testing.T, m *Match, card *Card, player int) *Object {
	t.Helper()
	obj := m.State.CreateObject(card, player)
	m.State.MoveObject(obj, ZoneHand)
	if err := m.executeCast(Action{Type: ActionCast, Player: player, Card: obj}); err != nil {
		t.Fatalf("cast %s: %v", card.Name, err)
	}
	if obj.Zone != ZoneBattlefield {
		t.Fatalf("%s did not reach the battlefield (zone %s)", card.Name, obj.Zone)
	}
	return obj
}

// inHand creates card in player's hand.
func inHand(m *Match, card *Card, player int) *Object {
	obj := m.State.CreateObject(card, player)
	m.State.MoveObject(obj, ZoneHand)
	return obj
}

func countEvents(logger *log.MemoryLogger, t log.EventType, card string) int {
	n := 0
	for _, e := range logger.EventsOfType(t) {
		if card == "" || e.Card == card {
			n++
		}
	}
	return n
}
