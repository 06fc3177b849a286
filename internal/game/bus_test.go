package game

import "testing"

// spyEffect counts how often the bus consults it.
type spyEffect struct {
	interception
	watches EventType
	veto    bool
	msg     string

	vetoCalls int
}

func (s *spyEffect) Text() string { return "spy" }

func (s *spyEffect) WatchesEventType(t EventType) bool { return t == s.watches }

func (s *spyEffect) Vetoes(Event, *Ability, RuleView) bool {
	s.vetoCalls++
	return s.veto
}

func (s *spyEffect) InfoMessage(Event, *Ability, RuleView) (string, bool) {
	return s.msg, s.msg != ""
}

func activeSpy(t *testing.T, id int, spy *spyEffect) *Ability {
	t.Helper()
	ab := newAbility(id, &AbilityDef{Trigger: TriggerStatic, Effects: []Effect{spy}}, ObjectRef{ID: ObjectID(id), ZCC: 1}, 0)
	ab.Activate()
	return ab
}

func TestBusOnlyAsksEffectsWatchingTheEventType(t *testing.T) {
	gs := NewGameState(nil)
	bus := NewEventBus()
	spy := &spyEffect{watches: EventCastSpell, veto: true}
	bus.Register(activeSpy(t, 1, spy))

	for _, et := range []EventType{EventPlayLand, EventEnteredBattlefield, EventLeftBattlefield, EventTurnStarted, EventCleanup} {
		if v := bus.Check(Event{Type: et}, gs); v.Vetoed {
			t.Errorf("%s vetoed by an effect watching only CastSpell", et)
		}
	}
	if spy.vetoCalls != 0 {
		t.Fatalf("Vetoes called %d times for unwatched event types", spy.vetoCalls)
	}

	if v := bus.Check(Event{Type: EventCastSpell}, gs); !v.Vetoed {
		t.Error("watched event not vetoed")
	}
	if spy.vetoCalls != 1 {
		t.Errorf("Vetoes calls = %d, want 1", spy.vetoCalls)
	}
}

func TestBusVerdictIsORAcrossAbilities(t *testing.T) {
	gs := NewGameState(nil)
	bus := NewEventBus()
	yes := &spyEffect{watches: EventCastSpell, veto: true, msg: "blocked by S1"}
	no := &spyEffect{watches: EventCastSpell}
	bus.Register(activeSpy(t, 1, no))
	bus.Register(activeSpy(t, 2, yes))

	v := bus.Check(Event{Type: EventCastSpell}, gs)
	if !v.Vetoed {
		t.Fatal("one veto should block the event")
	}
	if len(v.Vetoes) != 1 || v.Reason() != "blocked by S1" {
		t.Errorf("vetoes = %+v, reason %q", v.Vetoes, v.Reason())
	}
	if no.vetoCalls != 1 || yes.vetoCalls != 1 {
		t.Errorf("every active effect should be asked once: %d, %d", no.vetoCalls, yes.vetoCalls)
	}

	yes.veto = false
	if bus.Check(Event{Type: EventCastSpell}, gs).Vetoed {
		t.Error("no effect vetoes, but the event was blocked")
	}
}

func TestBusNeverAsksExpiredAbilities(t *testing.T) {
	gs := NewGameState(nil)
	bus := NewEventBus()
	spy := &spyEffect{watches: EventCastSpell, veto: true}
	ab := activeSpy(t, 1, spy)
	bus.Register(ab)

	ab.Expire()
	if bus.Check(Event{Type: EventCastSpell}, gs).Vetoed {
		t.Error("expired ability still vetoes")
	}
	bus.Unregister(ab)
	if bus.Check(Event{Type: EventCastSpell}, gs).Vetoed {
		t.Error("unregistered ability still vetoes")
	}
	if spy.vetoCalls != 0 {
		t.Errorf("expired ability consulted %d times", spy.vetoCalls)
	}
	if len(bus.Registered()) != 0 {
		t.Errorf("Registered = %d abilities, want 0", len(bus.Registered()))
	}
}

func TestBusRegisterIsIdempotent(t *testing.T) {
	bus := NewEventBus()
	spy := &spyEffect{watches: EventCastSpell, veto: true}
	ab := activeSpy(t, 1, spy)
	bus.Register(ab)
	bus.Register(ab)
	bus.Check(Event{Type: EventCastSpell}, NewGameState(nil))
	if spy.vetoCalls != 1 {
		t.Errorf("double Register made the effect run %d times", spy.vetoCalls)
	}
}

func TestBusFireDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus()
	var got []EventType
	bus.Subscribe(EventCleanup, ListenerFunc(func(ev Event) { got = append(got, ev.Type) }))
	bus.Subscribe(EventTurnStarted, ListenerFunc(func(ev Event) { got = append(got, ev.Type) }))

	bus.Fire(Event{Type: EventCleanup})
	bus.Fire(Event{Type: EventLeftBattlefield})
	bus.Fire(Event{Type: EventTurnStarted})

	if len(got) != 2 || got[0] != EventCleanup || got[1] != EventTurnStarted {
		t.Errorf("delivered %v", got)
	}
}
