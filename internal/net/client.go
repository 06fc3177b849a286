package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// errNoInput is returned when the terminal closes mid-prompt.
var errNoInput = errors.New("input closed")

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string // "P1" or "P2"

	// In and Out are the player's terminal; stdin/stdout when nil.
	In  io.Reader
	Out io.Writer
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")

	client := &Client{conn: conn, playerName: "P2"}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.In)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx, err := c.readChoice(reader, len(msg.Actions))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: "action", Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "choose_cards":
			if msg.State != nil {
				c.renderState(msg.State)
			}
			c.renderCardChoice(msg.Prompt, msg.Candidates, msg.Min, msg.Max)
			indices, err := c.readCardIndices(reader, len(msg.Candidates), msg.Min, msg.Max)
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: "cards", Indices: indices}); err != nil {
				return fmt.Errorf("send cards: %w", err)
			}

		case "choose_name":
			c.renderNameChoice(msg.Prompt, msg.Names)
			reply, err := c.readName(reader, msg.Names)
			if err != nil {
				return err
			}
			if err := enc.Encode(reply); err != nil {
				return fmt.Errorf("send name: %w", err)
			}

		case "game_over":
			fmt.Fprintln(c.Out)
			fmt.Fprintln(c.Out, "═══════════════════════════════════")
			fmt.Fprintln(c.Out, "          GAME OVER")
			fmt.Fprintln(c.Out, "═══════════════════════════════════")
			fmt.Fprintln(c.Out, msg.Result)
			fmt.Fprintln(c.Out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	for len(phase) < 12 {
		phase += " "
	}
	fmt.Fprintf(c.Out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(c.Out, "║  OPPONENT (Life: %d)  Hand: %d  Library: %d  Graveyard: %d\n",
		opp.Life, opp.HandCount, opp.LibraryCount, opp.GraveyardCount)
	c.renderBattlefield(opp.Battlefield)

	fmt.Fprintln(c.Out, "║──────────────────────────────────────────────────────")

	you := sv.You
	c.renderBattlefield(you.Battlefield)
	fmt.Fprintf(c.Out, "║  YOU, %s (Life: %d)  Hand: %d  Library: %d  Graveyard: %d\n",
		c.playerName, you.Life, you.HandCount, you.LibraryCount, you.GraveyardCount)
	fmt.Fprintln(c.Out, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(c.Out, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(c.Out, "\nHand: ")
		for i, name := range you.Hand {
			fmt.Fprintf(c.Out, "[%d] %s  ", i+1, name)
		}
		fmt.Fprintln(c.Out)
	}
}

func (c *Client) renderBattlefield(perms []PermanentView) {
	if len(perms) == 0 {
		fmt.Fprintln(c.Out, "║  (no permanents)")
		return
	}
	for _, p := range perms {
		fmt.Fprintf(c.Out, "║  %s\n", formatPermanent(p))
		for _, info := range p.Info {
			fmt.Fprintf(c.Out, "║      %s\n", info)
		}
	}
}

func formatPermanent(p PermanentView) string {
	if p.Power > 0 || p.Toughness > 0 {
		return fmt.Sprintf("[%s %d/%d]", p.Name, p.Power, p.Toughness)
	}
	return fmt.Sprintf("[%s]", p.Name)
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.Out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.Out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

// readLine reads one trimmed line, failing once input is exhausted.
func (c *Client) readLine(reader *bufio.Reader) (string, error) {
	fmt.Fprint(c.Out, "> ")
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", errNoInput
	}
	return strings.TrimSpace(line), nil
}

func (c *Client) readChoice(reader *bufio.Reader, count int) (int, error) {
	for {
		line, err := c.readLine(reader)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Fprintf(c.Out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1, nil // convert to 0-indexed
	}
}

func (c *Client) renderCardChoice(prompt string, candidates []CardView, min, max int) {
	fmt.Fprintf(c.Out, "\n%s (select %d", prompt, min)
	if max != min {
		fmt.Fprintf(c.Out, "-%d", max)
	}
	fmt.Fprintln(c.Out, ")")
	for _, cv := range candidates {
		fmt.Fprintf(c.Out, "  %d) %s (%s)\n", cv.Index+1, cv.Name, cv.TypeLine)
	}
}

func (c *Client) readCardIndices(reader *bufio.Reader, count, min, max int) ([]int, error) {
	for {
		line, err := c.readLine(reader)
		if err != nil {
			return nil, err
		}
		parts := strings.Fields(line)

		if len(parts) < min || len(parts) > max {
			fmt.Fprintf(c.Out, "Enter %d-%d numbers separated by spaces\n", min, max)
			continue
		}

		var indices []int
		valid := true
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 || n > count {
				fmt.Fprintf(c.Out, "Each number must be between 1 and %d\n", count)
				valid = false
				break
			}
			indices = append(indices, n-1) // convert to 0-indexed
		}
		if valid {
			return indices, nil
		}
	}
}

func (c *Client) renderNameChoice(prompt string, names []string) {
	fmt.Fprintf(c.Out, "\n%s\n", prompt)
	for i, name := range names {
		fmt.Fprintf(c.Out, "  %d) %s\n", i+1, name)
	}
	fmt.Fprintln(c.Out, "Enter a number or the exact card name (blank to skip).")
}

// readName accepts a list number or a card name typed out in full.
func (c *Client) readName(reader *bufio.Reader, names []string) (ClientMessage, error) {
	line, err := c.readLine(reader)
	if err != nil {
		return ClientMessage{}, err
	}
	if line == "" {
		return ClientMessage{Type: "name", Decline: true}, nil
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(names) {
		return ClientMessage{Type: "name", Name: names[n-1]}, nil
	}
	return ClientMessage{Type: "name", Name: line}, nil
}
