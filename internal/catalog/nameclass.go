package catalog

import "fmt"

// NameClass selects which names a naming effect offers. The set of classes is
// closed: every class must implement the full method set, so adding one is a
// compile-time exercise for every caller.
type NameClass interface {
	// Admits reports whether a card's name may be chosen under this class.
	Admits(info CardInfo) bool
	// Prompt is the message shown to the choosing player.
	Prompt() string
	// Describe is the rules-text fragment, e.g. "card name other than a basic land card".
	Describe() string
	// Key is a stable identifier used by transports and query strings.
	Key() string

	nameClass()
}

// NonBasicLandName admits every card except basic lands.
type NonBasicLandName struct{}

func (NonBasicLandName) Admits(info CardInfo) bool {
	return !(info.HasType("Land") && info.HasSupertype("Basic"))
}

func (NonBasicLandName) Prompt() string {
	return "Choose a card name other than a basic land card name"
}

func (NonBasicLandName) Describe() string { return "card name other than a basic land card" }
func (NonBasicLandName) Key() string      { return "nonbasic" }
func (NonBasicLandName) nameClass()       {}

// NonLandName admits every card that isn't a land.
type NonLandName struct{}

func (NonLandName) Admits(info CardInfo) bool { return !info.HasType("Land") }
func (NonLandName) Prompt() string            { return "Choose a nonland card name" }
func (NonLandName) Describe() string          { return "nonland card name" }
func (NonLandName) Key() string               { return "nonland" }
func (NonLandName) nameClass()                {}

// AnyName admits every card.
type AnyName struct{}

func (AnyName) Admits(CardInfo) bool { return true }
func (AnyName) Prompt() string       { return "Choose a card name" }
func (AnyName) Describe() string     { return "card name" }
func (AnyName) Key() string          { return "any" }
func (AnyName) nameClass()           {}

// Classes lists every name class.
func Classes() []NameClass {
	return []NameClass{NonBasicLandName{}, NonLandName{}, AnyName{}}
}

// ParseClass looks up a class by its Key.
func ParseClass(key string) (NameClass, error) {
	for _, c := range Classes() {
		if c.Key() == key {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown name class %q", key)
}
