package game

import "strings"

// Trigger is the condition that moves an ability from Pending to Active.
type Trigger int

const (
	TriggerAsEnters  Trigger = iota // as the permanent enters the battlefield
	TriggerStatic                   // while the permanent is on the battlefield
	TriggerOnResolve                // when the spell resolves
)

func (t Trigger) String() string {
	switch t {
	case TriggerAsEnters:
		return "as enters"
	case TriggerStatic:
		return "static"
	case TriggerOnResolve:
		return "on resolve"
	default:
		return "unknown"
	}
}

// Duration bounds how long an active ability keeps working.
type Duration int

const (
	DurationWhileOnBattlefield Duration = iota
	DurationUntilEndOfTurn
	DurationUntilYourNextTurn
	DurationPermanent
)

func (d Duration) String() string {
	switch d {
	case DurationWhileOnBattlefield:
		return "while on the battlefield"
	case DurationUntilEndOfTurn:
		return "until end of turn"
	case DurationUntilYourNextTurn:
		return "until your next turn"
	case DurationPermanent:
		return "for the rest of the game"
	default:
		return "unknown"
	}
}

// ZoneBound reports whether the duration ends when the source changes zones.
// Zone-bound abilities only resolve their source's exact incarnation.
func (d Duration) ZoneBound() bool {
	return d == DurationWhileOnBattlefield
}

// expiredBy reports whether ev ends an ability with this duration.
func (d Duration) expiredBy(ev Event, ab *Ability) bool {
	switch d {
	case DurationWhileOnBattlefield:
		return ev.Type == EventLeftBattlefield && ev.Object == ab.Source
	case DurationUntilEndOfTurn:
		return ev.Type == EventCleanup
	case DurationUntilYourNextTurn:
		return ev.Type == EventTurnStarted && ev.Player == ab.Controller
	case DurationPermanent:
		return false
	}
	return false
}

// AbilityState is the lifecycle of one ability instance.
type AbilityState int

const (
	AbilityPending AbilityState = iota
	AbilityActive
	AbilityExpired
)

func (s AbilityState) String() string {
	switch s {
	case AbilityPending:
		return "Pending"
	case AbilityActive:
		return "Active"
	case AbilityExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// AbilityDef is the static description of an ability printed on a card.
type AbilityDef struct {
	Trigger  Trigger
	Duration Duration
	Effects  []Effect
	// Text overrides the rules text generated from the effects.
	Text string
}

// RulesText returns Text, or the effects' text joined into a sentence.
func (d *AbilityDef) RulesText() string {
	if d.Text != "" {
		return d.Text
	}
	var parts []string
	for _, e := range d.Effects {
		parts = append(parts, e.Text())
	}
	return strings.Join(parts, ". ")
}

// Ability binds an AbilityDef to one incarnation of its source object.
// Pending → Active → Expired; an expired ability never comes back, a source
// that re-enters gets fresh abilities under a fresh ref.
type Ability struct {
	ID         int
	Source     ObjectRef
	Controller int
	Def        *AbilityDef

	state      AbilityState
	oneShots   []OneShotEffect
	intercepts []InterceptionEffect
}

func newAbility(id int, def *AbilityDef, source ObjectRef, controller int) *Ability {
	oneShots, intercepts := splitEffects(def.Effects)
	return &Ability{
		ID:         id,
		Source:     source,
		Controller: controller,
		Def:        def,
		oneShots:   oneShots,
		intercepts: intercepts,
	}
}

// State returns the current lifecycle state.
func (a *Ability) State() AbilityState {
	return a.state
}

// IsActive reports whether the ability is in the Active state.
func (a *Ability) IsActive() bool {
	return a.state == AbilityActive
}

// Activate moves a pending ability to Active. Returns false for any other
// starting state, which is what keeps one-shot effects from re-running.
func (a *Ability) Activate() bool {
	if a.state != AbilityPending {
		return false
	}
	a.state = AbilityActive
	return true
}

// Expire moves the ability to Expired. Returns false if it already was.
func (a *Ability) Expire() bool {
	if a.state == AbilityExpired {
		return false
	}
	a.state = AbilityExpired
	return true
}

// OneShots returns the ability's one-shot effects in printed order.
func (a *Ability) OneShots() []OneShotEffect {
	return a.oneShots
}

// Interceptions returns the ability's interception effects in printed order.
func (a *Ability) Interceptions() []InterceptionEffect {
	return a.intercepts
}

// ResolveSource finds the ability's source object. Zone-bound abilities
// require the exact incarnation; others accept the object wherever it went.
func (a *Ability) ResolveSource(view RuleView) (*Object, bool) {
	if a.Def.Duration.ZoneBound() {
		return view.Resolve(a.Source)
	}
	return view.LastKnown(a.Source)
}
