package game

import (
	"fmt"

	"github.com/peterkuimelis/interdict/internal/log"
)

// computeMainPhaseActions lists what the turn player may attempt. Restricted
// cards are still offered; the restriction applies when the attempt is made.
func (m *Match) computeMainPhaseActions(player int) []Action {
	gs := m.State
	p := gs.Players[player]
	var actions []Action

	for _, obj := range gs.Objects(p.Hand) {
		if obj.Card.IsLand() {
			if p.LandPlayedThisTurn {
				continue
			}
			actions = append(actions, Action{
				Type:   ActionPlayLand,
				Player: player,
				Card:   obj,
				Desc:   fmt.Sprintf("Play %s", obj.Card.Name),
			})
			continue
		}
		actions = append(actions, Action{
			Type:   ActionCast,
			Player: player,
			Card:   obj,
			Desc:   fmt.Sprintf("Cast %s", obj.Card.Name),
		})
	}

	actions = append(actions, Action{Type: ActionEndTurn, Player: player, Desc: "End Turn"})
	return actions
}

// checkAttempt asks the bus whether ev may happen and logs a block.
func (m *Match) checkAttempt(ev Event, obj *Object) bool {
	gs := m.State
	verdict := m.Bus.Check(ev, gs)
	if !verdict.Vetoed {
		return true
	}
	reason := verdict.Reason()
	if reason == "" {
		reason = "prohibited"
	}
	m.log(log.NewPlayBlockedEvent(gs.Turn, gs.Phase.String(), ev.Player, obj.Card.Name, reason))
	return false
}

func (m *Match) executePlayLand(a Action) error {
	gs := m.State
	obj := a.Card
	p := gs.Players[a.Player]
	if obj == nil || obj.Zone != ZoneHand || obj.Owner != a.Player || !obj.Card.IsLand() {
		return fmt.Errorf("cannot play %v: not a land in player %d's hand", obj, a.Player)
	}
	if p.LandPlayedThisTurn {
		return fmt.Errorf("player %d already played a land this turn", a.Player)
	}

	if !m.checkAttempt(Event{Type: EventPlayLand, Player: a.Player, Object: obj.Ref()}, obj) {
		return nil
	}

	p.LandPlayedThisTurn = true
	obj.Controller = a.Player
	gs.MoveObject(obj, ZoneBattlefield)
	m.log(log.NewPlayLandEvent(gs.Turn, gs.Phase.String(), a.Player, obj.Card.Name))
	return m.enterBattlefield(obj)
}

func (m *Match) executeCast(a Action) error {
	gs := m.State
	obj := a.Card
	if obj == nil || obj.Zone != ZoneHand || obj.Owner != a.Player || obj.Card.IsLand() {
		return fmt.Errorf("cannot cast %v: not a spell in player %d's hand", obj, a.Player)
	}

	if !m.checkAttempt(Event{Type: EventCastSpell, Player: a.Player, Object: obj.Ref()}, obj) {
		return nil
	}

	obj.Controller = a.Player
	gs.MoveObject(obj, ZoneStack)
	m.log(log.NewCastEvent(gs.Turn, gs.Phase.String(), a.Player, obj.Card.Name))
	return m.resolve(obj)
}

// resolve resolves a spell on the stack. Permanents enter the battlefield;
// instants and sorceries run their spell abilities and go to the graveyard.
func (m *Match) resolve(obj *Object) error {
	gs := m.State
	m.log(log.NewResolveEvent(gs.Turn, gs.Phase.String(), obj.Controller, obj.Card.Name))

	if obj.Card.IsPermanent() {
		gs.MoveObject(obj, ZoneBattlefield)
		return m.enterBattlefield(obj)
	}

	src := obj.Ref()
	for i := range obj.Card.Abilities {
		def := &obj.Card.Abilities[i]
		if def.Trigger != TriggerOnResolve {
			continue
		}
		ab := m.newAbility(def, src, obj.Controller)
		if err := m.activate(ab); err != nil {
			return err
		}
		// Nothing left to do once a purely one-shot spell ability has run.
		if len(ab.Interceptions()) == 0 {
			m.expire(ab)
		}
		if gs.Over {
			break
		}
	}
	m.pruneExpired()

	if obj.Zone == ZoneStack {
		gs.MoveObject(obj, ZoneGraveyard)
		m.log(log.NewSendToGraveyardEvent(gs.Turn, gs.Phase.String(), obj.Owner, obj.Card.Name, "resolved"))
	}
	return nil
}

// enterBattlefield instantiates a permanent's abilities for its new
// incarnation: as-enters abilities run first, then static abilities start.
func (m *Match) enterBattlefield(obj *Object) error {
	gs := m.State
	src := obj.Ref()
	m.log(log.NewEnterBattlefieldEvent(gs.Turn, gs.Phase.String(), obj.Controller, obj.Card.Name))

	var asEnters, statics []*Ability
	for i := range obj.Card.Abilities {
		def := &obj.Card.Abilities[i]
		switch def.Trigger {
		case TriggerAsEnters:
			asEnters = append(asEnters, m.newAbility(def, src, obj.Controller))
		case TriggerStatic:
			statics = append(statics, m.newAbility(def, src, obj.Controller))
		}
	}
	m.Bus.Fire(Event{Type: EventEnteredBattlefield, Player: obj.Controller, Object: src})

	for _, ab := range append(asEnters, statics...) {
		if err := m.activate(ab); err != nil {
			return err
		}
		if gs.Over {
			return nil
		}
	}

	m.applyWorldRule(obj)
	return nil
}

// applyWorldRule puts every other World permanent into its owner's graveyard
// when a new one enters.
func (m *Match) applyWorldRule(entered *Object) {
	if !entered.Card.HasSupertype(SupertypeWorld) || entered.Zone != ZoneBattlefield {
		return
	}
	for _, obj := range m.State.Permanents() {
		if obj != entered && obj.Card.HasSupertype(SupertypeWorld) {
			m.leaveBattlefield(obj, ZoneGraveyard, "world rule")
		}
	}
}

// leaveBattlefield moves a permanent off the battlefield and fires the event
// that ends its zone-bound abilities.
func (m *Match) leaveBattlefield(obj *Object, to ZoneType, reason string) {
	gs := m.State
	ref := obj.Ref()
	controller := obj.Controller

	gs.MoveObject(obj, to)
	m.log(log.NewLeaveBattlefieldEvent(gs.Turn, gs.Phase.String(), controller, obj.Card.Name, reason))
	m.Bus.Fire(Event{Type: EventLeftBattlefield, Player: controller, Object: ref})
}

func (m *Match) newAbility(def *AbilityDef, src ObjectRef, controller int) *Ability {
	m.nextAbilityID++
	ab := newAbility(m.nextAbilityID, def, src, controller)
	m.abilities = append(m.abilities, ab)
	return ab
}

// activate moves a pending ability to Active, runs its one-shot effects once
// in printed order and registers its interception effects with the bus.
// A one-shot that does nothing doesn't stop the rest.
func (m *Match) activate(ab *Ability) error {
	if !ab.Activate() {
		return nil
	}
	for _, eff := range ab.OneShots() {
		if _, err := eff.Apply(m.ctx, m, ab); err != nil {
			return err
		}
		if m.State.Over || !ab.IsActive() {
			break
		}
	}
	if ab.IsActive() && len(ab.Interceptions()) > 0 {
		m.Bus.Register(ab)
	}
	return nil
}

// trackDurations expires every ability whose duration ev ends.
func (m *Match) trackDurations(ev Event) {
	for _, ab := range m.abilities {
		if ab.State() != AbilityExpired && ab.Def.Duration.expiredBy(ev, ab) {
			m.expire(ab)
		}
	}
	m.pruneExpired()
}

// expire ends one ability and stops it from being polled.
func (m *Match) expire(ab *Ability) {
	if !ab.Expire() {
		return
	}
	m.Bus.Unregister(ab)
	if len(ab.Interceptions()) == 0 {
		return
	}
	gs := m.State
	source, _ := gs.LastKnown(ab.Source)
	m.log(log.NewAbilityExpiredEvent(gs.Turn, gs.Phase.String(), ab.Controller, source.LogName(), ab.Def.RulesText()))
}

// pruneExpired forgets expired abilities and drops the stored state of every
// source that has no live ability left.
func (m *Match) pruneExpired() {
	live := m.abilities[:0]
	var ended []ObjectRef
	for _, ab := range m.abilities {
		if ab.State() == AbilityExpired {
			ended = append(ended, ab.Source)
			continue
		}
		live = append(live, ab)
	}
	for i := len(live); i < len(m.abilities); i++ {
		m.abilities[i] = nil
	}
	m.abilities = live

	for _, src := range ended {
		if len(m.AbilitiesOf(src)) == 0 {
			m.State.Store.DropSource(src)
		}
	}
}
