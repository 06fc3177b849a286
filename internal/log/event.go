package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDraw
	EventShuffle
	EventPlayLand
	EventCast
	EventPlayBlocked // a cast or land play was vetoed by an interception effect
	EventResolve
	EventEnterBattlefield
	EventLeaveBattlefield
	EventDestroy
	EventSendToGraveyard
	EventDiscard
	EventDamage
	EventLifeChange
	EventNameChosen
	EventChoiceDeclined
	EventAbilityExpired
	EventWin
	EventDrawGame
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventShuffle:
		return "Shuffle"
	case EventPlayLand:
		return "PlayLand"
	case EventCast:
		return "Cast"
	case EventPlayBlocked:
		return "PlayBlocked"
	case EventResolve:
		return "Resolve"
	case EventEnterBattlefield:
		return "EnterBattlefield"
	case EventLeaveBattlefield:
		return "LeaveBattlefield"
	case EventDestroy:
		return "Destroy"
	case EventSendToGraveyard:
		return "SendToGraveyard"
	case EventDiscard:
		return "Discard"
	case EventDamage:
		return "Damage"
	case EventLifeChange:
		return "LifeChange"
	case EventNameChosen:
		return "NameChosen"
	case EventChoiceDeclined:
		return "ChoiceDeclined"
	case EventAbilityExpired:
		return "AbilityExpired"
	case EventWin:
		return "Win"
	case EventDrawGame:
		return "Draw(game)"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // current phase name (e.g. "Main Phase")
	Player  int       // acting player (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
