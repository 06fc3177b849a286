package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/peterkuimelis/interdict/internal/game"
	"github.com/peterkuimelis/interdict/internal/log"
)

// maxNameAttempts bounds how often a player is re-asked after naming
// something that wasn't offered.
const maxNameAttempts = 3

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(state *game.GameState, player int) *StateView {
	sv := &StateView{
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.TurnPlayer == player,
		You:        buildPlayerView(state, player),
		Opponent:   buildPlayerView(state, 1-player),
	}
	for _, obj := range state.Objects(state.Players[player].Hand) {
		sv.You.Hand = append(sv.You.Hand, obj.Card.Name)
	}
	return sv
}

func buildPlayerView(state *game.GameState, player int) PlayerView {
	p := state.Players[player]
	pv := PlayerView{
		Life:           p.Life,
		HandCount:      p.HandCount(),
		GraveyardCount: len(p.Graveyard),
		LibraryCount:   p.LibraryCount(),
		Battlefield:    []PermanentView{},
	}
	for _, obj := range state.Objects(p.Battlefield) {
		pv.Battlefield = append(pv.Battlefield, PermanentViewOf(obj))
	}
	return pv
}

// PermanentViewOf describes a permanent with its annotations in tag order.
func PermanentViewOf(obj *game.Object) PermanentView {
	v := PermanentView{
		Name:      obj.Card.Name,
		TypeLine:  obj.Card.TypeLine(),
		Power:     obj.Card.Power,
		Toughness: obj.Card.Toughness,
	}
	tags := make([]string, 0, len(obj.Info))
	for tag := range obj.Info {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		v.Info = append(v.Info, obj.Info[tag])
	}
	return v
}

// CardViews numbers candidates for a selection prompt.
func CardViews(candidates []*game.Object) []CardView {
	views := make([]CardView, 0, len(candidates))
	for i, c := range candidates {
		views = append(views, CardView{Index: i, Name: c.Card.Name, TypeLine: c.Card.TypeLine(), Controller: c.Controller})
	}
	return views
}

// EventViewOf converts a log event for the wire.
func EventViewOf(event log.GameEvent) *EventView {
	return &EventView{
		Turn:    event.Turn,
		Phase:   event.Phase,
		Player:  event.Player,
		Type:    event.Type.String(),
		Card:    event.Card,
		Details: event.Details,
	}
}

// buildStateView creates a StateView from the perspective of this controller's player.
func (nc *NetworkController) buildStateView(state *game.GameState) *StateView {
	return BuildStateView(state, nc.player)
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []ActionView
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Desc: a.String()})
	}

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: views,
		State:   nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return game.Action{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[len(actions)-1], nil // fallback to the last action (end turn)
	}
	return actions[resp.Index], nil
}

// ChooseCards implements game.PlayerController.
func (nc *NetworkController) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.Object, min, max int) ([]*game.Object, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:       "choose_cards",
		Prompt:     prompt,
		Candidates: CardViews(candidates),
		Min:        min,
		Max:        max,
		State:      nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_cards: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return nil, fmt.Errorf("recv cards: %w", err)
	}

	var result []*game.Object
	for _, idx := range resp.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseName implements game.PlayerController. A name that wasn't offered is
// re-asked a few times, then treated as declining.
func (nc *NetworkController) ChooseName(ctx context.Context, state *game.GameState, choice *game.Choice) (bool, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	prompt := choice.Message
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		msg := ServerMessage{
			Type:   "choose_name",
			Prompt: prompt,
			Names:  choice.Options(),
			State:  nc.buildStateView(state),
		}
		if err := nc.send(msg); err != nil {
			return false, fmt.Errorf("send choose_name: %w", err)
		}

		resp, err := nc.recv()
		if err != nil {
			return false, fmt.Errorf("recv name: %w", err)
		}
		if resp.Decline {
			return false, nil
		}
		if err := choice.Set(resp.Name); err == nil {
			return true, nil
		}
		prompt = fmt.Sprintf("%s (%q is not one of the choices)", choice.Message, resp.Name)
	}
	return false, nil
}

// ReadJoin reads the joiner's handshake and returns its deck number,
// defaulting to deck 2.
func (nc *NetworkController) ReadJoin() (int, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	msg, err := nc.recv()
	if err != nil {
		return 0, fmt.Errorf("read join message: %w", err)
	}
	if msg.Type != "join" {
		return 0, fmt.Errorf("expected join message, got %q", msg.Type)
	}
	if msg.DeckNumber == 0 {
		return 2, nil
	}
	return msg.DeckNumber, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "notify", Event: EventViewOf(event)})
}
