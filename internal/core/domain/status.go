package domain

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the legal target states per source state.
var transitions = map[Status][]Status{
	StatusPending:   {StatusProcessed, StatusCancelled},
	StatusProcessed: nil,
	StatusCancelled: nil,
}

// ParseStatus returns the Status named by s, or false if s is not a known state.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := transitions[st]
	return st, ok
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether a record in state s may move to next.
// Staying in the same state is always allowed so repeated calls are harmless.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition when s cannot move to next.
func (s Status) CheckTransition(next Status) error {
	if s.CanTransition(next) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
}
