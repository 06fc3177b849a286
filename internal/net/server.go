package net

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/game"
	"github.com/peterkuimelis/interdict/internal/log"
)

// Server hosts a match between the local player and one TCP client.
type Server struct {
	DeckFile string
	Port     string
	HostDeck int // host's deck number (1-indexed)

	Catalog  catalog.Catalog                        // name source; the card registry when nil
	Stores   func(matchID string) game.StateStore // effect state per match; in-memory when nil
	MaxTurns int

	// In and Out are the host's terminal; stdin/stdout when nil.
	In  io.Reader
	Out io.Writer
}

func (s *Server) out() io.Writer {
	if s.Out == nil {
		return os.Stdout
	}
	return s.Out
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Fprintf(s.out(), "Waiting for opponent on port %s...\n", s.Port)
	return s.Serve(ctx, ln)
}

// Serve accepts exactly one joiner from ln and runs the match.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	out := s.out()

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(out, "Opponent connected from %s\n", conn.RemoteAddr())

	joinerCtrl := NewNetworkController(conn, 1)
	joinerDeck, err := joinerCtrl.ReadJoin()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Opponent chose deck %d\n", joinerDeck)

	decks, err := game.LoadDeckFile(s.DeckFile)
	if err != nil {
		return err
	}
	hostDeckName, hostCards, err := decks.Deck(s.HostDeck)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	joinerDeckName, joinerCards, err := decks.Deck(joinerDeck)
	if err != nil {
		return fmt.Errorf("load joiner deck: %w", err)
	}

	fmt.Fprintf(out, "Host: %s (%d cards)\n", hostDeckName, len(hostCards))
	fmt.Fprintf(out, "Joiner: %s (%d cards)\n", joinerDeckName, len(joinerCards))

	// The host plays through a local pipe with the same protocol as the joiner.
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	defer hostServerConn.Close()

	// Player 0 = host, Player 1 = joiner
	hostCtrl := NewNetworkController(hostServerConn, 0)

	id := uuid.NewString()
	var store game.StateStore
	if s.Stores != nil {
		store = s.Stores(id)
	}
	match := game.NewMatch(game.MatchConfig{
		ID:       id,
		Deck0:    hostCards,
		Deck1:    joinerCards,
		Logger:   log.NewTextLogger(out),
		Catalog:  s.Catalog,
		Store:    store,
		MaxTurns: s.MaxTurns,
	}, hostCtrl, joinerCtrl)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		client := &Client{conn: hostConn, playerName: "P1", In: s.In, Out: out}
		return client.RunREPL(gctx)
	})

	g.Go(func() error {
		defer cancel()
		winner, err := match.Run(gctx)
		if err != nil {
			return fmt.Errorf("match error: %w", err)
		}
		_ = joinerCtrl.SendGameOver(winner, match.State.Result)
		_ = hostCtrl.SendGameOver(winner, match.State.Result)
		return nil
	})

	// Unblock whichever side is still reading once the other one stops.
	g.Go(func() error {
		<-gctx.Done()
		hostServerConn.Close()
		conn.Close()
		return nil
	})

	return g.Wait()
}
