// Package flow implements the scripted dialogue opened from a notification:
// the branching support flow for flagged messages and the plain linear
// transcript for everything else.
package flow

import (
	"errors"
	"fmt"
)

// State is a position in the support flow.
type State string

const (
	StateChoices     State = "choices"
	StateBlocked     State = "blocked"
	StateResponding  State = "responding"
	StateSharePrompt State = "share_prompt"
)

// Action is a user input to the support flow.
type Action string

const (
	ActionBlock   Action = "block"
	ActionRespond Action = "respond"
	ActionSend    Action = "send"
)

var (
	// ErrInvalidTransition is returned for an action the current state does not accept.
	ErrInvalidTransition = errors.New("flow: invalid transition")
	// ErrEmptyMessage is returned when sending blank text.
	ErrEmptyMessage = errors.New("flow: empty message")
)

// Next returns the state reached by applying a in s.
//
//	choices     --block-->   blocked
//	choices     --respond--> responding
//	responding  --send-->    share_prompt
//	share_prompt --send-->   share_prompt
//
// Blocked accepts nothing and no state leads back to choices.
func Next(s State, a Action) (State, error) {
	switch s {
	case StateChoices:
		switch a {
		case ActionBlock:
			return StateBlocked, nil
		case ActionRespond:
			return StateResponding, nil
		}
	case StateResponding:
		if a == ActionSend {
			return StateSharePrompt, nil
		}
	case StateSharePrompt:
		if a == ActionSend {
			return StateSharePrompt, nil
		}
	case StateBlocked:
	default:
		return s, fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, s)
	}
	return s, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, a, s)
}

// Terminal reports whether s offers no way forward except sending more
// messages.
func (s State) Terminal() bool {
	return s == StateBlocked || s == StateSharePrompt
}

// AcceptsInput reports whether the compose box is shown in s.
func (s State) AcceptsInput() bool {
	return s == StateResponding || s == StateSharePrompt
}
