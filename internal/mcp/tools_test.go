package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/interdict/internal/game"
	"github.com/peterkuimelis/interdict/internal/log"
)

// boltPlayer tries to cast the first spell it is offered once, then only ends turns.
type boltPlayer struct {
	tried bool
}

func (b *boltPlayer) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	if !b.tried {
		for _, a := range actions {
			if a.Type == game.ActionCast {
				b.tried = true
				return a, nil
			}
		}
	}
	return actions[len(actions)-1], nil
}

func (b *boltPlayer) ChooseCards(context.Context, *game.GameState, string, []*game.Object, int, int) ([]*game.Object, error) {
	return nil, nil
}

func (b *boltPlayer) ChooseName(context.Context, *game.GameState, *game.Choice) (bool, error) {
	return false, nil
}

func (b *boltPlayer) Notify(context.Context, log.GameEvent) error { return nil }

func deckOf(name string, n int) []*game.Card {
	deck := make([]*game.Card, n)
	for i := range deck {
		deck[i] = game.LookupCard(name)
	}
	return deck
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func decode(t *testing.T, res *mcp.CallToolResult) ToolResponse {
	t.Helper()
	require.NotNil(t, res)
	require.False(t, res.IsError, "tool returned an error: %+v", res.Content)
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	return resp
}

func startTestSession(t *testing.T) (*Tools, *GameSession) {
	t.Helper()
	tools := NewTools(Options{MaxTurns: 6})
	sess := startSession(context.Background(), tools.opts, 0,
		deckOf("Meddling Mage", 20), deckOf("Lightning Bolt", 20), &boltPlayer{}, nil)
	t.Cleanup(sess.Close)
	tools.setSession(sess)
	return tools, sess
}

func TestAgentNamesCardThroughTools(t *testing.T) {
	tools, sess := startTestSession(t)
	ctx := context.Background()

	first, err := sess.waitForPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, first.Pending)
	assert.Equal(t, DecisionChooseAction, first.Pending.Type)
	assert.Equal(t, "agent", first.Pending.ForPlayer)
	assert.Equal(t, "Cast Meddling Mage", first.Pending.Actions[0].Desc)

	res, err := tools.handleTakeAction(ctx, call("take_action", map[string]any{"index": 0}))
	require.NoError(t, err)
	naming := decode(t, res)
	require.NotNil(t, naming.Pending)
	require.Equal(t, DecisionChooseName, naming.Pending.Type)
	assert.Contains(t, naming.Pending.Names, "Lightning Bolt")
	assert.NotContains(t, naming.Pending.Names, "Island")

	// Wrong tool for the pending decision.
	res, err = tools.handleTakeAction(ctx, call("take_action", map[string]any{"index": 0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// Names must match exactly.
	res, err = tools.handleNameCard(ctx, call("name_card", map[string]any{"name": "lightning bolt"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.handleNameCard(ctx, call("name_card", map[string]any{"name": "Lightning Bolt"}))
	require.NoError(t, err)
	afterName := decode(t, res)
	require.NotNil(t, afterName.Pending)
	assert.Equal(t, DecisionChooseAction, afterName.Pending.Type)
	require.Len(t, afterName.State.You.Battlefield, 1)
	assert.Equal(t, []string{"Named card: Lightning Bolt"}, afterName.State.You.Battlefield[0].Info)

	// End the turn; the opponent's Lightning Bolt is blocked on their turn.
	end := len(afterName.Pending.Actions) - 1
	res, err = tools.handleTakeAction(ctx, call("take_action", map[string]any{"index": end}))
	require.NoError(t, err)
	next := decode(t, res)

	var blocked []string
	for _, ev := range next.Events {
		if ev.Type == log.EventPlayBlocked.String() {
			blocked = append(blocked, ev.Card)
		}
	}
	assert.Equal(t, []string{"Lightning Bolt"}, blocked)
	assert.Equal(t, 20, next.State.You.Life)
}

func TestToolsWithoutMatch(t *testing.T) {
	tools := NewTools(Options{})
	ctx := context.Background()

	res, err := tools.handleGetMatchState(ctx, call("get_match_state", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.handleNameCard(ctx, call("name_card", map[string]any{"decline": true}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.handleStartMatch(ctx, call("start_match", map[string]any{"agent_deck": 0, "agent_player": 0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetMatchStateIsReadOnly(t *testing.T) {
	tools, sess := startTestSession(t)
	ctx := context.Background()

	_, err := sess.waitForPending(ctx)
	require.NoError(t, err)

	res, err := tools.handleGetMatchState(ctx, call("get_match_state", nil))
	require.NoError(t, err)
	state := decode(t, res)
	require.NotNil(t, state.Pending)
	assert.Equal(t, DecisionChooseAction, state.Pending.Type)
	assert.NotEmpty(t, state.MatchID)

	res, err = tools.handleGetMatchState(ctx, call("get_match_state", nil))
	require.NoError(t, err)
	again := decode(t, res)
	assert.Empty(t, again.Events, "events are drained by the first call")
	assert.Equal(t, state.Pending.Actions, again.Pending.Actions)
}
