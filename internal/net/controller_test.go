package net

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/interdict/internal/game"
)

// peer is the far end of a pipe, speaking the client side of the protocol.
type peer struct {
	enc *json.Encoder
	dec *json.Decoder
}

func pipeController(t *testing.T, player int) (*NetworkController, *peer) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewNetworkController(server, player), &peer{enc: json.NewEncoder(client), dec: json.NewDecoder(client)}
}

func (p *peer) expect(t *testing.T, typ string) ServerMessage {
	t.Helper()
	var msg ServerMessage
	require.NoError(t, p.dec.Decode(&msg))
	require.Equal(t, typ, msg.Type)
	return msg
}

func (p *peer) reply(t *testing.T, msg ClientMessage) {
	t.Helper()
	require.NoError(t, p.enc.Encode(msg))
}

func TestChooseNameOverTheWire(t *testing.T) {
	nc, p := pipeController(t, 0)
	state := game.NewGameState(nil)
	choice := game.NewChoice("Choose a nonland card name", []string{"Fireball", "Counterspell"})

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := nc.ChooseName(context.Background(), state, choice)
		done <- result{ok, err}
	}()

	msg := p.expect(t, "choose_name")
	assert.ElementsMatch(t, []string{"Fireball", "Counterspell"}, msg.Names)
	p.reply(t, ClientMessage{Type: "name", Name: "fireball"})

	msg = p.expect(t, "choose_name")
	assert.Contains(t, msg.Prompt, `"fireball" is not one of the choices`)
	p.reply(t, ClientMessage{Type: "name", Name: "Fireball"})

	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.ok)
	v, _ := choice.Value()
	assert.Equal(t, "Fireball", v)
}

func TestChooseNameDeclineAndGiveUp(t *testing.T) {
	t.Run("decline", func(t *testing.T) {
		nc, p := pipeController(t, 1)
		choice := game.NewChoice("Choose", []string{"Fireball"})
		done := make(chan bool, 1)
		go func() {
			ok, _ := nc.ChooseName(context.Background(), game.NewGameState(nil), choice)
			done <- ok
		}()
		p.expect(t, "choose_name")
		p.reply(t, ClientMessage{Type: "name", Decline: true})
		assert.False(t, <-done)
	})

	t.Run("too many bad names", func(t *testing.T) {
		nc, p := pipeController(t, 1)
		choice := game.NewChoice("Choose", []string{"Fireball"})
		done := make(chan bool, 1)
		go func() {
			ok, _ := nc.ChooseName(context.Background(), game.NewGameState(nil), choice)
			done <- ok
		}()
		for i := 0; i < maxNameAttempts; i++ {
			p.expect(t, "choose_name")
			p.reply(t, ClientMessage{Type: "name", Name: "Lightning Bolt"})
		}
		assert.False(t, <-done)
		_, ok := choice.Value()
		assert.False(t, ok)
	})
}

func TestChooseActionFallsBackToLast(t *testing.T) {
	nc, p := pipeController(t, 0)
	actions := []game.Action{{Type: game.ActionCast, Desc: "Cast Fireball"}, {Type: game.ActionEndTurn}}
	done := make(chan game.Action, 1)
	go func() {
		a, _ := nc.ChooseAction(context.Background(), game.NewGameState(nil), actions)
		done <- a
	}()
	msg := p.expect(t, "choose_action")
	require.Len(t, msg.Actions, 2)
	assert.Equal(t, "Cast Fireball", msg.Actions[0].Desc)
	p.reply(t, ClientMessage{Type: "action", Index: 7})
	assert.Equal(t, game.ActionEndTurn, (<-done).Type)
}

func TestStateViewShowsAnnotations(t *testing.T) {
	gs := game.NewGameState(nil)
	mage := gs.CreateObject(game.MeddlingMage(), 0)
	gs.MoveObject(mage, game.ZoneBattlefield)
	mage.AddInfo(game.TagNamedCard, "Named card: Fireball")
	gs.MoveObject(gs.CreateObject(game.LookupCard("Island"), 0), game.ZoneHand)

	sv := BuildStateView(gs, 0)
	require.Len(t, sv.You.Battlefield, 1)
	assert.Equal(t, []string{"Named card: Fireball"}, sv.You.Battlefield[0].Info)
	assert.Equal(t, []string{"Island"}, sv.You.Hand)

	opp := BuildStateView(gs, 1)
	assert.Empty(t, opp.You.Hand)
	assert.Equal(t, 1, opp.Opponent.HandCount)
	assert.Len(t, opp.Opponent.Battlefield, 1)
}

func TestClientNamesByNumberOrText(t *testing.T) {
	var out bytes.Buffer
	c := &Client{Out: &out}
	names := []string{"Counterspell", "Fireball"}

	msg, err := c.readName(bufio.NewReader(strings.NewReader("2\n")), names)
	require.NoError(t, err)
	assert.Equal(t, "Fireball", msg.Name)

	msg, err = c.readName(bufio.NewReader(strings.NewReader("Counterspell\n")), names)
	require.NoError(t, err)
	assert.Equal(t, "Counterspell", msg.Name)

	msg, err = c.readName(bufio.NewReader(strings.NewReader("\n")), names)
	require.NoError(t, err)
	assert.True(t, msg.Decline)

	_, err = c.readName(bufio.NewReader(strings.NewReader("")), names)
	assert.ErrorIs(t, err, errNoInput)
}

func TestReadJoin(t *testing.T) {
	tests := []struct {
		msg     ClientMessage
		want    int
		wantErr bool
	}{
		{ClientMessage{Type: "join", DeckNumber: 3}, 3, false},
		{ClientMessage{Type: "join"}, 2, false},
		{ClientMessage{Type: "action"}, 0, true},
	}
	for _, tt := range tests {
		nc, p := pipeController(t, 1)
		go p.enc.Encode(tt.msg)
		got, err := nc.ReadJoin()
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
