package game

import "strings"

// EventType classifies engine events. The first group are attempts that the
// bus checks against interception effects before they commit; the rest are
// lifecycle notifications fired after the fact.
type EventType int

const (
	EventCastSpell EventType = iota
	EventPlayLand
	EventEnteredBattlefield
	EventLeftBattlefield
	EventTurnStarted
	EventCleanup
)

func (e EventType) String() string {
	switch e {
	case EventCastSpell:
		return "CastSpell"
	case EventPlayLand:
		return "PlayLand"
	case EventEnteredBattlefield:
		return "EnteredBattlefield"
	case EventLeftBattlefield:
		return "LeftBattlefield"
	case EventTurnStarted:
		return "TurnStarted"
	case EventCleanup:
		return "Cleanup"
	default:
		return "Unknown"
	}
}

// Event is a single engine event. It carries identities only; handlers
// resolve them through a RuleView at the point of use.
type Event struct {
	Type   EventType
	Player int       // acting player
	Object ObjectRef // card being cast/played, or the permanent that moved
}

// Listener receives fired events.
type Listener interface {
	HandleEvent(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

func (f ListenerFunc) HandleEvent(ev Event) { f(ev) }

// Veto records one interception effect that blocked an event.
type Veto struct {
	Ability *Ability
	Message string
}

// Verdict is the outcome of checking an event against every active
// interception effect.
type Verdict struct {
	Vetoed bool
	Vetoes []Veto
}

// Reason joins the info messages of all vetoes.
func (v Verdict) Reason() string {
	var msgs []string
	for _, veto := range v.Vetoes {
		if veto.Message != "" {
			msgs = append(msgs, veto.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// EventBus dispatches lifecycle events to listeners and polls registered
// abilities' interception effects before actions commit. It is driven by the
// match loop and is not safe for concurrent use.
type EventBus struct {
	abilities []*Ability
	listeners map[EventType][]Listener
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]Listener),
	}
}

// Register makes an active ability's interception effects visible to Check.
// Registering twice is a no-op.
func (b *EventBus) Register(ab *Ability) {
	for _, a := range b.abilities {
		if a == ab {
			return
		}
	}
	b.abilities = append(b.abilities, ab)
}

// Unregister removes an ability from Check.
func (b *EventBus) Unregister(ab *Ability) {
	for i, a := range b.abilities {
		if a == ab {
			b.abilities = append(b.abilities[:i], b.abilities[i+1:]...)
			return
		}
	}
}

// Registered returns the abilities currently registered, in registration order.
func (b *EventBus) Registered() []*Ability {
	out := make([]*Ability, len(b.abilities))
	copy(out, b.abilities)
	return out
}

// Check asks every active registered ability whether ev must fail. Effects
// that don't watch ev's type are never asked. The result is the OR of all
// answers; every vetoing effect contributes its info message.
func (b *EventBus) Check(ev Event, view RuleView) Verdict {
	var verdict Verdict
	for _, ab := range b.abilities {
		if !ab.IsActive() {
			continue
		}
		for _, eff := range ab.Interceptions() {
			if !eff.WatchesEventType(ev.Type) {
				continue
			}
			if !eff.Vetoes(ev, ab, view) {
				continue
			}
			verdict.Vetoed = true
			msg, _ := eff.InfoMessage(ev, ab, view)
			verdict.Vetoes = append(verdict.Vetoes, Veto{Ability: ab, Message: msg})
		}
	}
	return verdict
}

// Subscribe adds a listener for an event type.
func (b *EventBus) Subscribe(t EventType, l Listener) {
	b.listeners[t] = append(b.listeners[t], l)
}

// Fire delivers ev to every listener subscribed to its type, in
// subscription order.
func (b *EventBus) Fire(ev Event) {
	listeners := make([]Listener, len(b.listeners[ev.Type]))
	copy(listeners, b.listeners[ev.Type])
	for _, l := range listeners {
		l.HandleEvent(ev)
	}
}
