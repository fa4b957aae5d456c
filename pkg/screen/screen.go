// Package screen holds the render model of the Mini App screen: events coming
// from the host, the instruction list going to it and the pure renderer
// between snapshot state and instructions.
package screen

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindHeader Kind = iota
	KindSection
	KindText
	KindBalance
	KindItem
	KindPlaceholder
	KindButton
	KindInput
	KindCode
)

// Instruction is one element of the rendered screen. Key is the translation
// key the Text was resolved from; instructions without a key are not
// relabelled on a language switch.
type Instruction struct {
	Kind   Kind
	Key    string
	Text   string
	Detail string
	Amount string
	Value  string
	Action string
	Group  string
	Active bool
}

var ErrBadEvent = errors.New("malformed event")

// Event is one user action, encoded on the wire as component:action[:value].
type Event struct {
	Component string
	Action    string
	Value     string
}

func ParseEvent(data string) (Event, error) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Event{}, ErrBadEvent
	}
	ev := Event{Component: parts[0], Action: parts[1]}
	if len(parts) == 3 {
		ev.Value = parts[2]
	}
	return ev, nil
}

func (e Event) String() string {
	if e.Value == "" {
		return e.Component + ":" + e.Action
	}
	return e.Component + ":" + e.Action + ":" + e.Value
}

// Action builds the wire form of an event.
func Action(component, action string, value ...string) string {
	return Event{Component: component, Action: action, Value: strings.Join(value, ":")}.String()
}
