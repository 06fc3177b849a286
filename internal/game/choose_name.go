package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/log"
)

// Tags under which naming effects store their pick.
const (
	TagNamedCard         = "NAMED_CARD"
	TagNamedCardOpponent = "NAMED_CARD_OPPONENT"
)

// Chooser selects which player makes a naming choice, relative to the
// ability's controller.
type Chooser int

const (
	ChooserController Chooser = iota
	ChooserOpponent
)

func (c Chooser) player(controller int) int {
	if c == ChooserOpponent {
		return 1 - controller
	}
	return controller
}

// ChooseNameEffect asks a player to name a card of Class and stores the name
// under (ability source, Tag).
type ChooseNameEffect struct {
	oneShot
	Class   catalog.NameClass
	Chooser Chooser
	Tag     string
}

func (e *ChooseNameEffect) Text() string {
	if e.Chooser == ChooserOpponent {
		return "an opponent chooses a " + e.Class.Describe()
	}
	return "choose a " + e.Class.Describe()
}

// Apply runs the choice. It does nothing (and reports false) when the source
// is gone, the catalog can't offer any name, or the player declines.
func (e *ChooseNameEffect) Apply(ctx context.Context, m *Match, ab *Ability) (bool, error) {
	gs := m.State
	source, ok := ab.ResolveSource(gs)
	if !ok {
		return false, nil
	}
	player := e.Chooser.player(ab.Controller)

	names, err := m.Catalog.Names(ctx, e.Class)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		m.log(log.NewChoiceDeclinedEvent(gs.Turn, gs.Phase.String(), player, source.LogName(),
			fmt.Sprintf("card catalog unavailable: %v", err)))
		return false, nil
	}
	if len(names) == 0 {
		m.log(log.NewChoiceDeclinedEvent(gs.Turn, gs.Phase.String(), player, source.LogName(), "no legal names"))
		return false, nil
	}

	choice := NewChoice(e.Class.Prompt(), names)
	picked, err := m.Controllers[player].ChooseName(ctx, gs, choice)
	if err != nil {
		return false, err
	}
	name, ok := choice.Value()
	if !picked || !ok {
		m.log(log.NewChoiceDeclinedEvent(gs.Turn, gs.Phase.String(), player, source.LogName(), "no name chosen"))
		return false, nil
	}

	gs.Store.Set(StateKey{Source: ab.Source, Tag: e.Tag}, name)
	m.log(log.NewNameChosenEvent(gs.Turn, gs.Phase.String(), player, source.LogName(), name))
	if source.Zone == ZoneBattlefield {
		source.AddInfo(e.Tag, "Named card: "+name)
	}
	return true, nil
}
