package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/log"
)

// PlayerController is the interface that network, MCP and scripted players implement.
type PlayerController interface {
	// ChooseAction presents available actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// ChooseCards asks the player to select cards from a list (discard, destroy target).
	ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*Object, min, max int) ([]*Object, error)

	// ChooseName asks the player to name a card. The controller calls
	// choice.Set with its pick and returns true, or returns false to decline.
	ChooseName(ctx context.Context, state *GameState, choice *Choice) (bool, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	ID        string  // match identifier; a random UUID when empty
	Deck0     []*Card // Player 0's deck
	Deck1     []*Card // Player 1's deck
	Logger    log.EventLogger
	Catalog   catalog.Catalog // name source for naming effects; the card registry when nil
	Store     StateStore      // effect state; in-memory when nil
	Seed      int64           // RNG seed (0 for random)
	NoShuffle bool            // skip library shuffle (for deterministic tests)
	MaxTurns  int             // stop after this many turns (0 = default limit)
}

const defaultMaxTurns = 200

// Match orchestrates an entire game between two players.
type Match struct {
	ID          string
	State       *GameState
	Controllers [2]PlayerController
	Logger      log.EventLogger
	Catalog     catalog.Catalog
	Bus         *EventBus

	abilities     []*Ability
	nextAbilityID int

	ctx       context.Context
	rng       *rand.Rand
	noShuffle bool
	maxTurns  int
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg MatchConfig, p0, p1 PlayerController) *Match {
	gs := NewGameState(cfg.Store)
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = defaultMaxTurns
	}

	for _, card := range cfg.Deck0 {
		gs.CreateObject(card, 0)
	}
	for _, card := range cfg.Deck1 {
		gs.CreateObject(card, 1)
	}

	m := &Match{
		ID:          id,
		State:       gs,
		Controllers: [2]PlayerController{p0, p1},
		Logger:      logger,
		Catalog:     cat,
		Bus:         NewEventBus(),
		ctx:         context.Background(),
		rng:         rand.New(rand.NewSource(seed)),
		noShuffle:   cfg.NoShuffle,
		maxTurns:    maxTurns,
	}
	tracker := ListenerFunc(m.trackDurations)
	m.Bus.Subscribe(EventLeftBattlefield, tracker)
	m.Bus.Subscribe(EventTurnStarted, tracker)
	m.Bus.Subscribe(EventCleanup, tracker)
	return m
}

// Run executes the entire match loop. Returns the winner (0, 1, or -1 for draw).
func (m *Match) Run(ctx context.Context) (int, error) {
	m.ctx = ctx
	gs := m.State

	if !m.noShuffle {
		for p := 0; p < 2; p++ {
			gs.Players[p].ShuffleLibrary(m.rng)
			m.log(log.NewShuffleEvent(gs.Turn, gs.Phase.String(), p))
		}
	}

	for i := 0; i < InitialHandSize; i++ {
		for p := 0; p < 2; p++ {
			if gs.DrawCard(p) == nil {
				return -1, fmt.Errorf("player %d has insufficient cards for opening hand", p)
			}
		}
	}

	for !gs.Over {
		if gs.Turn >= m.maxTurns {
			gs.Over = true
			gs.Winner = -1
			gs.Result = fmt.Sprintf("Turn limit reached (%d turns)", m.maxTurns)
			m.log(log.NewDrawGameEvent(gs.Turn, gs.Phase.String(), gs.Result))
			break
		}
		if err := m.runTurn(); err != nil {
			return gs.Winner, err
		}
		if err := m.ctx.Err(); err != nil {
			return -1, err
		}
	}

	return gs.Winner, nil
}

// runTurn executes a single turn for the current turn player.
func (m *Match) runTurn() error {
	gs := m.State
	gs.Turn++
	gs.ResetTurnFlags()

	m.log(log.NewTurnEvent(gs.Turn, gs.TurnPlayer))
	m.Bus.Fire(Event{Type: EventTurnStarted, Player: gs.TurnPlayer})

	m.beginningPhase()
	if m.checkGameOver() {
		return nil
	}

	if err := m.mainPhase(); err != nil {
		return err
	}
	if m.checkGameOver() {
		return nil
	}

	if err := m.endPhase(); err != nil {
		return err
	}
	if m.checkGameOver() {
		return nil
	}

	gs.TurnPlayer = gs.Opponent(gs.TurnPlayer)
	return nil
}

// beginningPhase draws for the turn. The player who goes first skips it.
func (m *Match) beginningPhase() {
	gs := m.State
	gs.Phase = PhaseBeginning
	m.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	if gs.Turn == 1 {
		return
	}
	m.drawCard(gs.TurnPlayer)
}

// mainPhase loops over the turn player's actions until they end the turn.
func (m *Match) mainPhase() error {
	gs := m.State
	gs.Phase = PhaseMain
	m.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	tp := gs.TurnPlayer
	for !gs.Over {
		actions := m.computeMainPhaseActions(tp)

		chosen, err := m.Controllers[tp].ChooseAction(m.ctx, gs, actions)
		if err != nil {
			return err
		}

		switch chosen.Type {
		case ActionPlayLand:
			if err := m.executePlayLand(chosen); err != nil {
				return err
			}
		case ActionCast:
			if err := m.executeCast(chosen); err != nil {
				return err
			}
		case ActionEndTurn:
			return nil
		default:
			return fmt.Errorf("unknown action type %d", chosen.Type)
		}
		m.checkGameOver()
	}
	return nil
}

// endPhase runs cleanup: discard to hand size, then end "this turn" effects.
func (m *Match) endPhase() error {
	gs := m.State
	gs.Phase = PhaseEnd
	m.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	p := gs.CurrentPlayer()
	for len(p.Hand) > MaxHandSize {
		hand := gs.Objects(p.Hand)
		toDiscard, err := m.Controllers[gs.TurnPlayer].ChooseCards(
			m.ctx, gs,
			fmt.Sprintf("Discard to %d cards (you have %d)", MaxHandSize, len(p.Hand)),
			hand, 1, 1,
		)
		if err != nil {
			return err
		}
		card := hand[len(hand)-1]
		if len(toDiscard) > 0 && toDiscard[0].Zone == ZoneHand && toDiscard[0].Owner == gs.TurnPlayer {
			card = toDiscard[0]
		}
		gs.MoveObject(card, ZoneGraveyard)
		m.log(log.NewDiscardEvent(gs.Turn, gs.Phase.String(), gs.TurnPlayer, card.Card.Name))
	}

	m.Bus.Fire(Event{Type: EventCleanup, Player: gs.TurnPlayer})
	return nil
}

// checkGameOver applies state-based loss checks and logs the result once.
func (m *Match) checkGameOver() bool {
	gs := m.State
	if gs.Over {
		return true
	}
	if !gs.CheckWinCondition() {
		return false
	}
	if gs.Winner < 0 {
		m.log(log.NewDrawGameEvent(gs.Turn, gs.Phase.String(), gs.Result))
	} else {
		m.log(log.NewWinEvent(gs.Turn, gs.Phase.String(), gs.Winner, gs.Result))
	}
	return true
}

// drawCard draws one card for player. Returns false if the library was empty.
func (m *Match) drawCard(player int) bool {
	gs := m.State
	obj := gs.DrawCard(player)
	if obj == nil {
		return false
	}
	m.log(log.NewDrawEvent(gs.Turn, gs.Phase.String(), player, obj.Card.Name))
	return true
}

// changeLife adjusts a player's life total and logs the change.
func (m *Match) changeLife(player, delta int, reason string) {
	gs := m.State
	p := gs.Players[player]
	old := p.Life
	p.Life += delta
	m.log(log.NewLifeChangeEvent(gs.Turn, gs.Phase.String(), player, old, p.Life, reason))
}

// Abilities returns every ability that hasn't expired yet.
func (m *Match) Abilities() []*Ability {
	out := make([]*Ability, len(m.abilities))
	copy(out, m.abilities)
	return out
}

// AbilitiesOf returns the live abilities of one source incarnation.
func (m *Match) AbilitiesOf(src ObjectRef) []*Ability {
	var out []*Ability
	for _, ab := range m.abilities {
		if ab.Source == src {
			out = append(out, ab)
		}
	}
	return out
}

// log emits a game event through the logger and notifies both players.
func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
	for i := 0; i < 2; i++ {
		_ = m.Controllers[i].Notify(m.ctx, event)
	}
}
