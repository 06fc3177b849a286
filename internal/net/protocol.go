package net

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose_cards" and "choose_name"
	Prompt     string     `json:"prompt,omitempty"`
	Candidates []CardView `json:"candidates,omitempty"`
	Min        int        `json:"min,omitempty"`
	Max        int        `json:"max,omitempty"`

	// For "choose_name"
	Names []string `json:"names,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// CardView describes a card candidate for selection.
type CardView struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	TypeLine   string `json:"type_line,omitempty"`
	Controller int    `json:"controller"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Life           int             `json:"life"`
	HandCount      int             `json:"hand_count"`
	Hand           []string        `json:"hand,omitempty"` // card names (only for "you")
	Battlefield    []PermanentView `json:"battlefield"`
	GraveyardCount int             `json:"graveyard_count"`
	LibraryCount   int             `json:"library_count"`
}

// PermanentView describes one permanent, including annotations such as
// "Named card: Fireball".
type PermanentView struct {
	Name      string   `json:"name"`
	TypeLine  string   `json:"type_line"`
	Power     int      `json:"power,omitempty"`
	Toughness int      `json:"toughness,omitempty"`
	Info      []string `json:"info,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action"
	Index int `json:"index,omitempty"`

	// For "cards"
	Indices []int `json:"indices,omitempty"`

	// For "name"; Decline skips the choice.
	Name    string `json:"name,omitempty"`
	Decline bool   `json:"decline,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int `json:"deck_number,omitempty"`
}
