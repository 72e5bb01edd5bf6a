package automaton

import "fmt"

// Transition holds one transition of an Automaton. It doubles as a
// reusable iteration cursor: InitTransition/GetNextTransition fill it
// in place so callers can scan a state's transitions without
// allocating.
type Transition struct {
	Source int
	Dest   int
	Min    int
	Max    int

	// TransitionUpto remembers where we are in the scan of the source
	// state's transitions.
	TransitionUpto int
}

func NewTransition() *Transition {
	return &Transition{TransitionUpto: -1}
}

func (t *Transition) String() string {
	return fmt.Sprintf("%d --> %d %c-%c", t.Source, t.Dest, rune(t.Min), rune(t.Max))
}
