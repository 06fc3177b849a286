package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/interdict/internal/log"
)

// DrawCardsEffect makes the controller draw N cards.
type DrawCardsEffect struct {
	oneShot
	N int
}

func (e *DrawCardsEffect) Text() string {
	if e.N == 1 {
		return "draw a card"
	}
	return fmt.Sprintf("draw %d cards", e.N)
}

func (e *DrawCardsEffect) Apply(_ context.Context, m *Match, ab *Ability) (bool, error) {
	drew := false
	for i := 0; i < e.N; i++ {
		if !m.drawCard(ab.Controller) {
			break
		}
		drew = true
	}
	return drew, nil
}

// DamageOpponentEffect deals Amount damage to the controller's opponent.
type DamageOpponentEffect struct {
	oneShot
	Amount int
}

func (e *DamageOpponentEffect) Text() string {
	return fmt.Sprintf("deals %d damage to target opponent", e.Amount)
}

func (e *DamageOpponentEffect) Apply(_ context.Context, m *Match, ab *Ability) (bool, error) {
	gs := m.State
	source, _ := gs.LastKnown(ab.Source)
	target := gs.Opponent(ab.Controller)
	m.log(log.NewDamageEvent(gs.Turn, gs.Phase.String(), ab.Controller, source.LogName(), e.Amount, target))
	m.changeLife(target, -e.Amount, source.LogName())
	return true, nil
}

// DestroyPermanentEffect destroys a permanent the controller picks from
// those matching Filter.
type DestroyPermanentEffect struct {
	oneShot
	What   string // e.g. "artifact or enchantment"
	Filter func(*Card) bool
}

func (e *DestroyPermanentEffect) Text() string {
	return "destroy target " + e.What
}

func (e *DestroyPermanentEffect) Apply(ctx context.Context, m *Match, ab *Ability) (bool, error) {
	gs := m.State
	var candidates []*Object
	for _, obj := range gs.Permanents() {
		if e.Filter == nil || e.Filter(obj.Card) {
			candidates = append(candidates, obj)
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	picked, err := m.Controllers[ab.Controller].ChooseCards(ctx, gs, "Choose a "+e.What+" to destroy", candidates, 1, 1)
	if err != nil {
		return false, err
	}
	if len(picked) == 0 {
		return false, nil
	}
	target := picked[0]
	if target.Zone != ZoneBattlefield {
		return false, nil
	}
	source, _ := gs.LastKnown(ab.Source)
	m.log(log.NewDestroyEvent(gs.Turn, gs.Phase.String(), target.Controller, target.LogName(), source.LogName()))
	m.leaveBattlefield(target, ZoneGraveyard, "destroyed by "+source.LogName())
	return true, nil
}
