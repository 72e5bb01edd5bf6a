package automaton

import "slices"

// Minimize returns a minimal (deterministic) automaton with the same
// language, using Brzozowski's algorithm: reverse, determinize, reverse
// and determinize again. The result has no dead states.
//
// Each determinization is seeded with the reversal's real initial
// states (the previous automaton's accept states). Seeding from the
// synthetic epsilon source Reverse adds would keep that state alive as
// its own subset and leave the result one state too large.
//
// workLimit caps the effort spent by each determinization; see
// Determinize.
func Minimize(a *Automaton, workLimit int) (*Automaton, error) {
	if a.GetNumStates() == 0 || (!a.IsAccept(0) && a.GetNumTransitionsWithState(0) == 0) {
		// Fastmatch for the common case of an empty language
		return NewAutomaton(), nil
	}

	initials := make(map[int]struct{})
	r, err := reverseWithInitial(a, initials)
	if err != nil {
		return nil, err
	}
	d, err := determinize(r, sortedStates(initials), workLimit)
	if err != nil {
		return nil, err
	}

	clear(initials)
	r, err = reverseWithInitial(d, initials)
	if err != nil {
		return nil, err
	}
	d, err = determinize(r, sortedStates(initials), workLimit)
	if err != nil {
		return nil, err
	}
	return RemoveDeadStates(d)
}

func sortedStates(set map[int]struct{}) []int {
	states := make([]int, 0, len(set))
	for s := range set {
		states = append(states, s)
	}
	slices.Sort(states)
	return states
}
