package mcp

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tools serves one match at a time to an MCP client.
type Tools struct {
	opts Options

	mu     sync.Mutex
	active *GameSession
}

// NewTools creates the tool set for matches configured by opts.
func NewTools(opts Options) *Tools {
	return &Tools{opts: opts}
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(startMatchTool(), t.handleStartMatch)
	s.AddTool(takeActionTool(), t.handleTakeAction)
	s.AddTool(selectCardsTool(), t.handleSelectCards)
	s.AddTool(nameCardTool(), t.handleNameCard)
	s.AddTool(getMatchStateTool(), t.handleGetMatchState)
}

func (t *Tools) session() *GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tools) setSession(sess *GameSession) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = sess
}

// --- Tool definitions ---

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new match. Returns the initial game state and first pending decision. "+
			"The human player connects via `interdict join --addr localhost:<port> --deck N` in a separate terminal. "+
			"This call blocks until the human connects."),
		mcp.WithNumber("agent_deck", mcp.Required(), mcp.Description("Deck number for the agent (1-indexed from decks.yaml)")),
		mcp.WithNumber("agent_player", mcp.Required(), mcp.Description("Which player the agent is: 0 = goes first, 1 = goes second")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func selectCardsTool() mcp.Tool {
	return mcp.NewTool("select_cards",
		mcp.WithDescription("Select cards from the pending candidates list. Use this when the pending decision type is 'choose_cards'."),
		mcp.WithString("indices", mcp.Required(), mcp.Description("Space-separated 0-based indices of cards to select (e.g. '0 2 3'), or empty string for no selection")),
	)
}

func nameCardTool() mcp.Tool {
	return mcp.NewTool("name_card",
		mcp.WithDescription("Name a card for an effect such as Meddling Mage. Use this when the pending decision type is 'choose_name'. "+
			"The name must match one of the pending names exactly."),
		mcp.WithString("name", mcp.Description("The card name to choose, copied from the pending names list")),
		mcp.WithBoolean("decline", mcp.Description("true to choose nothing; the card's restriction then blocks nothing")),
	)
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.session() != nil {
		return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
	}

	agentDeck := request.GetInt("agent_deck", 0)
	agentPlayer := request.GetInt("agent_player", 0)

	if agentDeck < 1 {
		return mcp.NewToolResultError("agent_deck must be >= 1"), nil
	}
	if agentPlayer != 0 && agentPlayer != 1 {
		return mcp.NewToolResultError("agent_player must be 0 or 1"), nil
	}

	// The match outlives this request.
	sess, err := NewGameSession(context.WithoutCancel(ctx), t.opts, agentDeck, agentPlayer)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	t.setSession(sess)

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	resp.Port = t.opts.Port
	return t.finish(resp), nil
}

// claim returns the session and its pending decision if it is the agent's
// turn to answer a decision of the given type.
func (t *Tools) claim(want DecisionType) (*GameSession, *PendingDecision, *mcp.CallToolResult) {
	sess := t.session()
	if sess == nil {
		return nil, nil, mcp.NewToolResultError("No match is running. Use start_match first.")
	}
	pending := sess.pending()
	if pending == nil {
		return nil, nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Player != sess.agentPlayer {
		return nil, nil, mcp.NewToolResultError("Waiting for human player to respond via their terminal.")
	}
	if pending.Type != want {
		return nil, nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want)
	}
	return sess, pending, nil
}

// submit answers the pending decision and waits for the next one.
func (t *Tools) submit(ctx context.Context, sess *GameSession, answer any) *mcp.CallToolResult {
	select {
	case sess.agentCtrl.responseCh <- answer:
	case <-ctx.Done():
		return mcp.NewToolResultErrorf("Cancelled: %v", ctx.Err())
	}

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err)
	}
	return t.finish(resp)
}

// finish renders resp and forgets the session once the match is over.
func (t *Tools) finish(resp *ToolResponse) *mcp.CallToolResult {
	if resp.GameOver {
		t.setSession(nil)
	}
	return mcp.NewToolResultText(respondJSON(resp))
}

func (t *Tools) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, errResult := t.claim(DecisionChooseAction)
	if errResult != nil {
		return errResult, nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}
	return t.submit(ctx, sess, ActionResponse{Index: index}), nil
}

func (t *Tools) handleSelectCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, errResult := t.claim(DecisionChooseCards)
	if errResult != nil {
		return errResult, nil
	}

	indicesStr := request.GetString("indices", "")
	var indices []int
	for _, p := range strings.Fields(indicesStr) {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid index '%s': must be an integer.", p), nil
		}
		if idx < 0 || idx >= len(pending.Candidates) {
			return mcp.NewToolResultErrorf("Index %d out of range. Must be 0-%d.", idx, len(pending.Candidates)-1), nil
		}
		indices = append(indices, idx)
	}

	if len(indices) < pending.Min {
		return mcp.NewToolResultErrorf("Must select at least %d card(s), got %d.", pending.Min, len(indices)), nil
	}
	if len(indices) > pending.Max {
		return mcp.NewToolResultErrorf("Must select at most %d card(s), got %d.", pending.Max, len(indices)), nil
	}
	return t.submit(ctx, sess, CardsResponse{Indices: indices}), nil
}

func (t *Tools) handleNameCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, errResult := t.claim(DecisionChooseName)
	if errResult != nil {
		return errResult, nil
	}

	if request.GetBool("decline", false) {
		return t.submit(ctx, sess, NameResponse{Decline: true}), nil
	}
	name := request.GetString("name", "")
	if !slices.Contains(pending.Names, name) {
		return mcp.NewToolResultErrorf("%q is not one of the %d names offered. Names must match exactly.", name, len(pending.Names)), nil
	}
	return t.submit(ctx, sess, NameResponse{Name: name}), nil
}

func (t *Tools) handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	sess.mu.Lock()
	gameOver := sess.gameOver
	winner := sess.winner
	result := sess.result
	current := sess.currentPending
	sess.mu.Unlock()

	resp := &ToolResponse{
		MatchID:  sess.match.ID,
		Events:   sess.drainEvents(),
		GameOver: gameOver,
		Winner:   winner,
		Result:   result,
	}

	switch {
	case gameOver:
		if current != nil {
			resp.State = current.State
		}
	case current != nil:
		resp.State = current.State
		resp.Pending = sess.pendingView(current)
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}
