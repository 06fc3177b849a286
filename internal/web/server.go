package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sort"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/game"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string   `json:"name"`
	TypeLine    string   `json:"typeLine"`
	Description string   `json:"description,omitempty"`
	Power       int      `json:"power,omitempty"`
	Toughness   int      `json:"toughness,omitempty"`
	Abilities   []string `json:"abilities,omitempty"`
}

// NamesInfo answers /api/names.
type NamesInfo struct {
	Class  string   `json:"class"`
	Prompt string   `json:"prompt"`
	Names  []string `json:"names"`
}

// Server is the interdict web API server.
type Server struct {
	decksFile string
	catalog   catalog.Catalog
	mux       *http.ServeMux
}

// NewServer creates a new web server. Names come from cat, or from the card
// registry when cat is nil.
func NewServer(decksFile string, cat catalog.Catalog) *Server {
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	s := &Server{
		decksFile: decksFile,
		catalog:   cat,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/names", s.handleNames)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(game.CardRegistry))
	for name := range game.CardRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	cards := make([]CardInfo, 0, len(names))
	for _, name := range names {
		c := game.CardRegistry[name]()
		ci := CardInfo{
			Name:        c.Name,
			TypeLine:    c.TypeLine(),
			Description: c.Description,
			Power:       c.Power,
			Toughness:   c.Toughness,
		}
		for _, def := range c.Abilities {
			ci.Abilities = append(ci.Abilities, def.RulesText())
		}
		cards = append(cards, ci)
	}
	writeJSON(w, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	df, err := game.LoadDeckFile(s.decksFile)
	if err != nil {
		log.Printf("load decks: %v", err)
		http.Error(w, "could not load decks file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, deckInfos(df))
}

// handleNames lists the names a naming effect of ?class= would offer.
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("class")
	if key == "" {
		key = catalog.AnyName{}.Key()
	}
	class, err := catalog.ParseClass(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	names, err := s.catalog.Names(r.Context(), class)
	if err != nil {
		log.Printf("catalog names: %v", err)
		http.Error(w, "card catalog unavailable", http.StatusBadGateway)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, NamesInfo{Class: class.Key(), Prompt: class.Prompt(), Names: names})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg struct {
		Type       string `json:"type"`
		Addr       string `json:"addr"`
		DeckNumber int    `json:"deck_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to game server
	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP
	joinMsg, _ := json.Marshal(map[string]any{
		"type":        "join",
		"deck_number": connectMsg.DeckNumber,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
