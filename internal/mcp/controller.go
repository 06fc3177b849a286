package mcp

import (
	"context"

	"github.com/peterkuimelis/interdict/internal/game"
	"github.com/peterkuimelis/interdict/internal/log"
	"github.com/peterkuimelis/interdict/internal/net"
)

// MCPController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *GameSession
	responseCh chan any
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *GameSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// await publishes a decision and waits for the tool call that answers it.
func (c *MCPController) await(ctx context.Context, pd *PendingDecision) (any, error) {
	select {
	case c.session.pendingCh <- pd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseAction implements game.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	var views []net.ActionView
	for i, a := range actions {
		views = append(views, net.ActionView{Index: i, Desc: a.String()})
	}

	resp, err := c.await(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.player,
		State:   net.BuildStateView(state, c.player),
		Actions: views,
	})
	if err != nil {
		return game.Action{}, err
	}
	ar := resp.(ActionResponse)

	if ar.Index < 0 || ar.Index >= len(actions) {
		return actions[len(actions)-1], nil
	}
	return actions[ar.Index], nil
}

// ChooseCards implements game.PlayerController.
func (c *MCPController) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.Object, min, max int) ([]*game.Object, error) {
	resp, err := c.await(ctx, &PendingDecision{
		Type:       DecisionChooseCards,
		Player:     c.player,
		State:      net.BuildStateView(state, c.player),
		Prompt:     prompt,
		Candidates: net.CardViews(candidates),
		Min:        min,
		Max:        max,
	})
	if err != nil {
		return nil, err
	}
	cr := resp.(CardsResponse)

	var result []*game.Object
	for _, idx := range cr.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseName implements game.PlayerController. The name_card tool only
// forwards names from the offered list.
func (c *MCPController) ChooseName(ctx context.Context, state *game.GameState, choice *game.Choice) (bool, error) {
	resp, err := c.await(ctx, &PendingDecision{
		Type:   DecisionChooseName,
		Player: c.player,
		State:  net.BuildStateView(state, c.player),
		Prompt: choice.Message,
		Names:  choice.Options(),
	})
	if err != nil {
		return false, err
	}
	nr := resp.(NameResponse)
	if nr.Decline {
		return false, nil
	}
	if err := choice.Set(nr.Name); err != nil {
		return false, err
	}
	return true, nil
}

// Notify implements game.PlayerController.
// Only the agent's controller appends events to avoid duplicates.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	if c.player == c.session.agentPlayer {
		c.session.appendEvent(*net.EventViewOf(event))
	}
	return nil
}
