package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/interdict/internal/catalog"
)

const testDecks = `decks:
  - name: Lockdown
    cards:
      - name: Meddling Mage
        count: 4
      - name: Island
        count: 16
  - name: Burn
    cards:
      - name: Lightning Bolt
        count: 20
`

func newTestServer(t *testing.T, cat catalog.Catalog) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDecks), 0o644))
	ts := httptest.NewServer(NewServer(path, cat).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestCardsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	var cards []CardInfo
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/cards", &cards))

	byName := make(map[string]CardInfo)
	for _, c := range cards {
		byName[c.Name] = c
	}
	mage, ok := byName["Meddling Mage"]
	require.True(t, ok)
	assert.Equal(t, 2, mage.Power)
	assert.NotEmpty(t, mage.Abilities)
	assert.Contains(t, byName["Null Chamber"].TypeLine, "World")
}

func TestDecksEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	var decks []DeckInfo
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/decks", &decks))
	require.Len(t, decks, 2)
	assert.Equal(t, DeckInfo{Number: 1, Name: "Lockdown", Size: 20, Cards: []string{"Meddling Mage", "Island"}}, decks[0])
	assert.Equal(t, 2, decks[1].Number)
}

func TestNamesEndpoint(t *testing.T) {
	cat := catalog.NewMemory(
		catalog.CardInfo{Name: "Island", Types: []string{"Land"}, Supertypes: []string{"Basic"}},
		catalog.CardInfo{Name: "Mishra's Factory", Types: []string{"Land"}},
		catalog.CardInfo{Name: "Fireball", Types: []string{"Sorcery"}},
	)
	ts := newTestServer(t, cat)

	tests := []struct {
		class string
		want  []string
	}{
		{"nonbasic", []string{"Fireball", "Mishra's Factory"}},
		{"nonland", []string{"Fireball"}},
		{"", []string{"Fireball", "Island", "Mishra's Factory"}},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			var info NamesInfo
			require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/names?class="+tt.class, &info))
			assert.Equal(t, tt.want, info.Names)
		})
	}

	var info NamesInfo
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/names?class=legendary", &info))
}

func TestWebSocketBridgesToGameServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// A game server stand-in: read the join, send one prompt, echo the answer back.
	got := make(chan []string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		join, _ := r.ReadString('\n')
		conn.Write([]byte(`{"type":"choose_name","names":["Fireball"]}` + "\n"))
		answer, _ := r.ReadString('\n')
		got <- []string{strings.TrimSpace(join), strings.TrimSpace(answer)}
		conn.Write([]byte(`{"type":"game_over","result":"done"}` + "\n"))
	}()

	ts := newTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.CloseNow()

	connect, _ := json.Marshal(map[string]any{"type": "connect", "addr": ln.Addr().String(), "deck_number": 3})
	require.NoError(t, ws.Write(ctx, websocket.MessageText, connect))

	_, prompt, err := ws.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"choose_name","names":["Fireball"]}`, string(prompt))

	require.NoError(t, ws.Write(ctx, websocket.MessageText, []byte(`{"type":"name","name":"Fireball"}`)))

	lines := <-got
	assert.JSONEq(t, `{"type":"join","deck_number":3}`, lines[0])
	assert.JSONEq(t, `{"type":"name","name":"Fireball"}`, lines[1])

	_, last, err := ws.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(last), "game_over")
}
