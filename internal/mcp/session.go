package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/game"
	"github.com/peterkuimelis/interdict/internal/log"
	"github.com/peterkuimelis/interdict/internal/net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseCards  DecisionType = "choose_cards"
	DecisionChooseName   DecisionType = "choose_name"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type       DecisionType     `json:"type"`
	Player     int              `json:"player"`
	State      *net.StateView   `json:"state"`
	Actions    []net.ActionView `json:"actions,omitempty"`
	Prompt     string           `json:"prompt,omitempty"`
	Candidates []net.CardView   `json:"candidates,omitempty"`
	Min        int              `json:"min,omitempty"`
	Max        int              `json:"max,omitempty"`
	Names      []string         `json:"names,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type CardsResponse struct {
	Indices []int
}

type NameResponse struct {
	Name    string
	Decline bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	MatchID  string          `json:"match_id,omitempty"`
	Events   []net.EventView `json:"events"`
	State    *net.StateView  `json:"state,omitempty"`
	Pending  *PendingView    `json:"pending,omitempty"`
	GameOver bool            `json:"game_over"`
	Winner   int             `json:"winner,omitempty"`
	Result   string          `json:"result,omitempty"`
	Port     string          `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType     `json:"type"`
	ForPlayer  string           `json:"for_player"`
	Actions    []net.ActionView `json:"actions,omitempty"`
	Prompt     string           `json:"prompt,omitempty"`
	Candidates []net.CardView   `json:"candidates,omitempty"`
	Min        int              `json:"min,omitempty"`
	Max        int              `json:"max,omitempty"`
	Names      []string         `json:"names,omitempty"`
}

// Options configure the matches an MCP server hosts.
type Options struct {
	DecksFile string
	Port      string // TCP port the human player joins on

	Catalog  catalog.Catalog
	Stores   func(matchID string) game.StateStore
	MaxTurns int
}

// gameOverSender is implemented by controllers with a remote end to tell.
type gameOverSender interface {
	SendGameOver(winner int, result string) error
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	match       *game.Match
	agentCtrl   *MCPController
	human       game.PlayerController
	agentPlayer int

	pendingCh chan *PendingDecision
	cancel    context.CancelFunc
	done      chan struct{}

	mu             sync.Mutex
	currentPending *PendingDecision
	events         []net.EventView
	gameOver       bool
	winner         int
	result         string
}

// NewGameSession starts a TCP listener, waits for the human player to connect
// via `interdict join`, then starts the match.
func NewGameSession(ctx context.Context, opts Options, agentDeck, agentPlayer int) (*GameSession, error) {
	decks, err := game.LoadDeckFile(opts.DecksFile)
	if err != nil {
		return nil, err
	}
	_, agentCards, err := decks.Deck(agentDeck)
	if err != nil {
		return nil, fmt.Errorf("load agent deck: %w", err)
	}

	ln, err := stdnet.Listen("tcp", ":"+opts.Port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", opts.Port, err)
	}

	// Accept one connection (blocks until the human runs `interdict join`)
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	human := net.NewNetworkController(conn, 1-agentPlayer)
	humanDeck, err := human.ReadJoin()
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, err
	}

	_, humanCards, err := decks.Deck(humanDeck)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("load human deck: %w", err)
	}

	return startSession(ctx, opts, agentPlayer, agentCards, humanCards, human, func() {
		conn.Close()
		ln.Close()
	}), nil
}

// startSession runs a match between the agent and human in the background.
// cleanup runs once the match is over.
func startSession(ctx context.Context, opts Options, agentPlayer int, agentCards, humanCards []*game.Card, human game.PlayerController, cleanup func()) *GameSession {
	ctx, cancel := context.WithCancel(ctx)
	sess := &GameSession{
		human:       human,
		agentPlayer: agentPlayer,
		pendingCh:   make(chan *PendingDecision, 1),
		cancel:      cancel,
		done:        make(chan struct{}),
		winner:      -1,
	}
	sess.agentCtrl = NewMCPController(agentPlayer, sess)

	// Assign decks to player indices
	deck0, deck1 := agentCards, humanCards
	var ctrl0, ctrl1 game.PlayerController = sess.agentCtrl, human
	if agentPlayer == 1 {
		deck0, deck1 = humanCards, agentCards
		ctrl0, ctrl1 = human, sess.agentCtrl
	}

	id := uuid.NewString()
	var store game.StateStore
	if opts.Stores != nil {
		store = opts.Stores(id)
	}
	sess.match = game.NewMatch(game.MatchConfig{
		ID:       id,
		Deck0:    deck0,
		Deck1:    deck1,
		Logger:   log.NewMemoryLogger(),
		Catalog:  opts.Catalog,
		Store:    store,
		MaxTurns: opts.MaxTurns,
	}, ctrl0, ctrl1)

	go func() {
		defer close(sess.done)
		winner, err := sess.match.Run(ctx)

		result := sess.match.State.Result
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
		} else if result == "" {
			result = fmt.Sprintf("Game over. Winner: player %d", winner)
		}

		if g, ok := human.(gameOverSender); ok {
			_ = g.SendGameOver(winner, result)
		}
		if cleanup != nil {
			cleanup()
		}

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()

		// A decision nobody will answer may still sit in the buffer.
		select {
		case <-sess.pendingCh:
		default:
		}
		sess.pendingCh <- &PendingDecision{
			Type:   DecisionGameOver,
			Player: winner,
			State:  net.BuildStateView(sess.match.State, sess.agentPlayer),
		}
	}()

	return sess
}

// Close abandons the match and waits for it to stop.
func (s *GameSession) Close() {
	s.cancel()
	<-s.done
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev net.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []net.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []net.EventView{}
	}
	return events
}

func (s *GameSession) pending() *PendingDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPending
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	s.currentPending = pending
	s.mu.Unlock()

	resp := &ToolResponse{
		MatchID: s.match.ID,
		Events:  s.drainEvents(),
		State:   pending.State,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = s.pendingView(pending)
	return resp, nil
}

func (s *GameSession) pendingView(p *PendingDecision) *PendingView {
	return &PendingView{
		Type:       p.Type,
		ForPlayer:  s.playerLabel(p.Player),
		Actions:    p.Actions,
		Prompt:     p.Prompt,
		Candidates: p.Candidates,
		Min:        p.Min,
		Max:        p.Max,
		Names:      p.Names,
	}
}

// playerLabel returns "agent" or "human" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "human"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
