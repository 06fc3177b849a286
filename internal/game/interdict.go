package game

import (
	"fmt"
	"slices"
	"strings"
)

// CantPlayNamedEffect stops cards whose name matches a name stored by the
// same source under any of Tags. It watches only Events.
type CantPlayNamedEffect struct {
	interception
	Events []EventType
	Tags   []string
}

func (e *CantPlayNamedEffect) Text() string {
	var verbs []string
	if slices.Contains(e.Events, EventCastSpell) {
		verbs = append(verbs, "cast")
	}
	if slices.Contains(e.Events, EventPlayLand) {
		verbs = append(verbs, "played")
	}
	return fmt.Sprintf("cards with the chosen name can't be %s", strings.Join(verbs, " or "))
}

func (e *CantPlayNamedEffect) WatchesEventType(t EventType) bool {
	return slices.Contains(e.Events, t)
}

func (e *CantPlayNamedEffect) Vetoes(ev Event, ab *Ability, view RuleView) bool {
	if _, ok := ab.ResolveSource(view); !ok {
		return false
	}
	obj, ok := view.Resolve(ev.Object)
	if !ok {
		return false
	}
	name := obj.Name()
	state := view.State()
	for _, tag := range e.Tags {
		chosen, ok := state.Get(StateKey{Source: ab.Source, Tag: tag})
		if ok && chosen == name {
			return true
		}
	}
	return false
}

func (e *CantPlayNamedEffect) InfoMessage(ev Event, ab *Ability, view RuleView) (string, bool) {
	source, ok := ab.ResolveSource(view)
	if !ok {
		return "", false
	}
	what := "cast a spell"
	if ev.Type == EventPlayLand {
		what = "play a land"
	}
	where := source.LogName()
	if source.Zone == ZoneBattlefield {
		where += " in play"
	}
	return fmt.Sprintf("You can't %s with that name (%s).", what, where), true
}
