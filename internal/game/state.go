package game

import (
	"fmt"
	"math/rand"
)

const (
	StartingLife    = 20
	InitialHandSize = 7
	MaxHandSize     = 7
)

// Player represents one player's zones and life total. Zones hold object IDs;
// the objects themselves live in the GameState arena.
type Player struct {
	Life        int
	Library     []ObjectID // top of library is last element (pop from end)
	Hand        []ObjectID
	Battlefield []ObjectID
	Graveyard   []ObjectID
	Exile       []ObjectID

	LandPlayedThisTurn bool
	DrewFromEmpty      bool
}

// LibraryCount returns the number of cards remaining in the library.
func (p *Player) LibraryCount() int {
	return len(p.Library)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// zone returns a pointer to the slice backing the given zone, or nil for
// zones not owned by a player (the stack).
func (p *Player) zone(z ZoneType) *[]ObjectID {
	switch z {
	case ZoneLibrary:
		return &p.Library
	case ZoneHand:
		return &p.Hand
	case ZoneBattlefield:
		return &p.Battlefield
	case ZoneGraveyard:
		return &p.Graveyard
	case ZoneExile:
		return &p.Exile
	default:
		return nil
	}
}

func removeID(ids []ObjectID, id ObjectID) []ObjectID {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// ShuffleLibrary randomizes the library order.
func (p *Player) ShuffleLibrary(rng *rand.Rand) {
	rng.Shuffle(len(p.Library), func(i, j int) {
		p.Library[i], p.Library[j] = p.Library[j], p.Library[i]
	})
}

// --- GameState ---

// GameState holds the complete state of a match: the object arena, both
// players, the turn structure and the shared StateStore.
type GameState struct {
	Players    [2]*Player
	Turn       int // 1-based turn counter
	TurnPlayer int // 0 or 1: whose turn it is
	Phase      Phase

	// Store is the per-match key/value state shared between effects.
	Store StateStore

	Stack []ObjectID

	objects map[ObjectID]*Object
	nextID  int

	// Game result
	Winner int // 0, 1, or -1 (no winner yet)
	Over   bool
	Result string
}

// NewGameState creates a fresh match state using the given store.
func NewGameState(store StateStore) *GameState {
	if store == nil {
		store = NewMemoryStore()
	}
	return &GameState{
		Players: [2]*Player{
			{Life: StartingLife},
			{Life: StartingLife},
		},
		Store:   store,
		objects: make(map[ObjectID]*Object),
		Winner:  -1,
	}
}

// Opponent returns the index of the other player.
func (gs *GameState) Opponent(player int) int {
	return 1 - player
}

// CurrentPlayer returns the Player struct for the turn player.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.TurnPlayer]
}

// CreateObject adds a new object for card to the arena, in owner's library.
func (gs *GameState) CreateObject(card *Card, owner int) *Object {
	gs.nextID++
	obj := &Object{
		Card:       card,
		ID:         ObjectID(gs.nextID),
		Owner:      owner,
		Controller: owner,
		Zone:       ZoneLibrary,
	}
	gs.objects[obj.ID] = obj
	gs.Players[owner].Library = append(gs.Players[owner].Library, obj.ID)
	return obj
}

// Resolve returns the object named by ref if that incarnation still exists.
func (gs *GameState) Resolve(ref ObjectRef) (*Object, bool) {
	obj, ok := gs.objects[ref.ID]
	if !ok || obj.ZCC != ref.ZCC {
		return nil, false
	}
	return obj, true
}

// LastKnown returns the object with ref's ID in whatever zone it is now.
func (gs *GameState) LastKnown(ref ObjectRef) (*Object, bool) {
	obj, ok := gs.objects[ref.ID]
	return obj, ok
}

// Object returns the object with the given ID.
func (gs *GameState) Object(id ObjectID) *Object {
	return gs.objects[id]
}

// Objects resolves a list of IDs, skipping unknown ones.
func (gs *GameState) Objects(ids []ObjectID) []*Object {
	result := make([]*Object, 0, len(ids))
	for _, id := range ids {
		if obj, ok := gs.objects[id]; ok {
			result = append(result, obj)
		}
	}
	return result
}

// Permanents returns every object on the battlefield, player 0 first.
func (gs *GameState) Permanents() []*Object {
	var result []*Object
	for p := 0; p < 2; p++ {
		result = append(result, gs.Objects(gs.Players[p].Battlefield)...)
	}
	return result
}

// MoveObject moves obj to zone, bumping its zone change counter. Battlefield
// and stack placement use the controller; every other zone uses the owner.
func (gs *GameState) MoveObject(obj *Object, to ZoneType) {
	gs.detach(obj)
	obj.ZCC++
	obj.Zone = to
	obj.Info = nil
	switch to {
	case ZoneStack:
		gs.Stack = append(gs.Stack, obj.ID)
	case ZoneBattlefield:
		obj.TurnEntered = gs.Turn
		p := gs.Players[obj.Controller]
		p.Battlefield = append(p.Battlefield, obj.ID)
	default:
		obj.Controller = obj.Owner
		z := gs.Players[obj.Owner].zone(to)
		*z = append(*z, obj.ID)
	}
}

func (gs *GameState) detach(obj *Object) {
	if obj.Zone == ZoneStack {
		gs.Stack = removeID(gs.Stack, obj.ID)
		return
	}
	for _, p := range gs.Players {
		if z := p.zone(obj.Zone); z != nil {
			*z = removeID(*z, obj.ID)
		}
	}
}

// DrawCard moves the top card of player's library to their hand. Returns nil
// (and marks the player) if the library is empty.
func (gs *GameState) DrawCard(player int) *Object {
	p := gs.Players[player]
	if len(p.Library) == 0 {
		p.DrewFromEmpty = true
		return nil
	}
	obj := gs.objects[p.Library[len(p.Library)-1]]
	gs.MoveObject(obj, ZoneHand)
	return obj
}

// ResetTurnFlags resets per-turn tracking for a new turn.
func (gs *GameState) ResetTurnFlags() {
	for _, p := range gs.Players {
		p.LandPlayedThisTurn = false
	}
}

// CheckWinCondition applies state-based loss checks (life and empty-library
// draws). Returns true if the game is over.
func (gs *GameState) CheckWinCondition() bool {
	lost := [2]bool{}
	for i, p := range gs.Players {
		lost[i] = p.Life <= 0 || p.DrewFromEmpty
	}

	switch {
	case lost[0] && lost[1]:
		gs.Over = true
		gs.Winner = -1
		gs.Result = "Draw: both players lost simultaneously"
	case lost[0]:
		gs.Over = true
		gs.Winner = 1
		gs.Result = fmt.Sprintf("P2 wins: %s", lossReason(gs.Players[0]))
	case lost[1]:
		gs.Over = true
		gs.Winner = 0
		gs.Result = fmt.Sprintf("P1 wins: %s", lossReason(gs.Players[1]))
	}
	return gs.Over
}

func lossReason(p *Player) string {
	if p.Life <= 0 {
		return "life reached 0"
	}
	return "drew from an empty library"
}
