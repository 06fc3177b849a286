package game

import (
	"errors"
	"fmt"
)

// ErrNotAChoice is returned by Choice.Set for a value that wasn't offered.
var ErrNotAChoice = errors.New("not one of the offered choices")

// Choice is a single pending pick from a fixed list of names. Membership is
// an exact, case-sensitive comparison.
type Choice struct {
	Message string

	options []string
	allowed map[string]struct{}
	value   string
	set     bool
}

// NewChoice builds a choice over options. Duplicates are kept once, in
// first-seen order.
func NewChoice(message string, options []string) *Choice {
	c := &Choice{
		Message: message,
		allowed: make(map[string]struct{}, len(options)),
	}
	for _, o := range options {
		if _, dup := c.allowed[o]; dup {
			continue
		}
		c.allowed[o] = struct{}{}
		c.options = append(c.options, o)
	}
	return c
}

// Options returns the offered names in order.
func (c *Choice) Options() []string {
	out := make([]string, len(c.options))
	copy(out, c.options)
	return out
}

// Contains reports whether name is one of the options.
func (c *Choice) Contains(name string) bool {
	_, ok := c.allowed[name]
	return ok
}

// Set records the pick. A name outside the options leaves the choice unchanged.
func (c *Choice) Set(name string) error {
	if !c.Contains(name) {
		return fmt.Errorf("%w: %q", ErrNotAChoice, name)
	}
	c.value = name
	c.set = true
	return nil
}

// Value returns the pick, if one was made.
func (c *Choice) Value() (string, bool) {
	return c.value, c.set
}

// Clear discards any pick.
func (c *Choice) Clear() {
	c.value = ""
	c.set = false
}
