package game

import "context"

// EffectKind is the closed set of effect shapes.
type EffectKind int

const (
	EffectOneShot      EffectKind = iota // runs once per ability activation
	EffectInterception                   // standing predicate consulted before actions commit
)

func (k EffectKind) String() string {
	switch k {
	case EffectOneShot:
		return "one-shot"
	case EffectInterception:
		return "interception"
	default:
		return "unknown"
	}
}

// Effect is implemented only by types in this package; see OneShotEffect and
// InterceptionEffect for the two shapes.
type Effect interface {
	Kind() EffectKind
	// Text returns the rules text for this effect.
	Text() string

	sealedEffect()
}

// OneShotEffect is executed exactly once per activation of its ability.
// Apply reports whether the effect did anything; a false result is a normal
// outcome. The error is reserved for controller and transport failures.
type OneShotEffect interface {
	Effect
	Apply(ctx context.Context, m *Match, ab *Ability) (bool, error)
}

// InterceptionEffect vetoes matching game actions while its ability is
// active. Both queries are pure: they must not mutate the view, the store or
// any object, and may be evaluated any number of times.
type InterceptionEffect interface {
	Effect
	// WatchesEventType reports whether Vetoes should be consulted for t.
	WatchesEventType(t EventType) bool
	// Vetoes reports whether ev must fail. Any unresolvable reference
	// yields false.
	Vetoes(ev Event, ab *Ability, view RuleView) bool
	// InfoMessage explains a veto to players. ok is false when the source
	// can't be resolved.
	InfoMessage(ev Event, ab *Ability, view RuleView) (msg string, ok bool)
}

// RuleView is the read-only window predicates get onto the match.
type RuleView interface {
	Resolve(ref ObjectRef) (*Object, bool)
	LastKnown(ref ObjectRef) (*Object, bool)
	State() StateReader
}

// State implements RuleView.
func (gs *GameState) State() StateReader {
	return gs.Store
}

// oneShot and interception are embedded by concrete effects to pick a kind.
type oneShot struct{}

func (oneShot) Kind() EffectKind { return EffectOneShot }
func (oneShot) sealedEffect()    {}

type interception struct{}

func (interception) Kind() EffectKind { return EffectInterception }
func (interception) sealedEffect()    {}

// splitEffects sorts effects by shape.
func splitEffects(effects []Effect) (oneShots []OneShotEffect, intercepts []InterceptionEffect) {
	for _, e := range effects {
		switch eff := e.(type) {
		case OneShotEffect:
			oneShots = append(oneShots, eff)
		case InterceptionEffect:
			intercepts = append(intercepts, eff)
		}
	}
	return oneShots, intercepts
}
