package automaton

import (
	"errors"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// IsEmpty returns true if the given automaton accepts no strings.
func IsEmpty(a *Automaton) bool {
	if a.GetNumStates() == 0 {
		// Common case: no states
		return true
	}
	if !a.IsAccept(0) && a.GetNumTransitionsWithState(0) == 0 {
		// Common case: just one initial state
		return true
	}
	if a.IsAccept(0) {
		// Apparently common case: it accepts the damned empty string
		return false
	}

	workList := make([]int, 0)
	seen := bitset.New(uint(a.GetNumStates()))
	workList = append(workList, 0)
	seen.Set(0)

	t := NewTransition()
	for len(workList) > 0 {
		state := workList[0]
		workList = workList[1:]
		if a.IsAccept(state) {
			return false
		}
		count := a.InitTransition(state, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if !seen.Test(uint(t.Dest)) {
				workList = append(workList, t.Dest)
				seen.Set(uint(t.Dest))
			}
		}
	}
	return true
}

// IsTotal returns true if the given automaton accepts all strings.
// The automaton must be minimized.
func IsTotal(a *Automaton) bool {
	return IsTotalRange(a, 0, maxCodePoint)
}

// IsTotalRange returns true if the given automaton accepts all strings
// for the specified min/max range of the alphabet. The automaton must
// be minimized.
func IsTotalRange(a *Automaton, minAlphabet, maxAlphabet int) bool {
	if a.IsAccept(0) && a.GetNumTransitionsWithState(0) == 1 {
		t := NewTransition()
		a.getTransition(0, 0, t)
		return t.Dest == 0 && t.Min == minAlphabet && t.Max == maxAlphabet
	}
	return false
}

// Union returns an automaton that accepts the union of the languages
// of the given automata.
func Union(automatons ...*Automaton) (*Automaton, error) {
	result := NewAutomaton()

	// Create initial state:
	result.CreateState()

	// Copy over all automata
	for _, a := range automatons {
		result.Copy(a)
	}

	// Add epsilon transition from new initial state
	stateOffset := 1
	for _, a := range automatons {
		if a.GetNumStates() == 0 {
			continue
		}
		result.AddEpsilon(0, stateOffset)
		stateOffset += a.GetNumStates()
	}

	result.FinishState()

	return RemoveDeadStates(result)
}

// Concatenate returns an automaton that accepts the concatenation of
// the languages of the given automata.
func Concatenate(automatons ...*Automaton) (*Automaton, error) {
	result := NewAutomaton()

	// First pass: create all states
	for _, a := range automatons {
		if a.GetNumStates() == 0 {
			result.FinishState()
			return result, nil
		}
		numStates := a.GetNumStates()
		for s := 0; s < numStates; s++ {
			result.CreateState()
		}
	}

	// Second pass: add transitions, carefully linking accept
	// states of A to init state of next A:
	stateOffset := 0
	t := NewTransition()

	for i, a := range automatons {
		numStates := a.GetNumStates()

		var nextA *Automaton
		if i < len(automatons)-1 {
			nextA = automatons[i+1]
		}

		for s := 0; s < numStates; s++ {
			numTransitions := a.InitTransition(s, t)
			for j := 0; j < numTransitions; j++ {
				a.GetNextTransition(t)
				if err := result.AddTransition(stateOffset+s, stateOffset+t.Dest, t.Min, t.Max); err != nil {
					return nil, err
				}
			}

			if a.IsAccept(s) {
				// Virtual epsilon into the next automaton's initial state;
				// keep chaining while that automaton accepts the empty string.
				follow := nextA
				followOffset := stateOffset
				next := i + 1
				for follow != nil {
					numTransitions = follow.InitTransition(0, t)
					for j := 0; j < numTransitions; j++ {
						follow.GetNextTransition(t)
						if err := result.AddTransition(stateOffset+s, followOffset+numStates+t.Dest, t.Min, t.Max); err != nil {
							return nil, err
						}
					}
					if !follow.IsAccept(0) {
						break
					}
					followOffset += follow.GetNumStates()
					next++
					if next == len(automatons) {
						follow = nil
					} else {
						follow = automatons[next]
					}
				}
				if follow == nil {
					// The whole tail of the chain accepts the empty string.
					result.SetAccept(stateOffset+s, true)
				}
			}
		}

		stateOffset += numStates
	}

	if result.GetNumStates() == 0 {
		result.CreateState()
	}

	result.FinishState()

	return result, nil
}

// Optional returns an automaton that accepts the union of the empty
// string and the language of the given automaton.
func Optional(a *Automaton) (*Automaton, error) {
	result := NewAutomaton()
	result.CreateState()
	result.SetAccept(0, true)
	if a.GetNumStates() > 0 {
		result.Copy(a)
		result.AddEpsilon(0, 1)
	}
	result.FinishState()
	return result, nil
}

// Repeat returns an automaton that accepts the Kleene star (zero or
// more concatenated repetitions) of the language of the given automaton.
func Repeat(a *Automaton) (*Automaton, error) {
	if a.GetNumStates() == 0 {
		// Repeating the empty automata will still only accept the empty automata.
		return a, nil
	}
	builder := NewBuilder()
	builder.CreateState()
	builder.SetAccept(0, true)
	builder.Copy(a)

	t := NewTransition()
	count := a.InitTransition(0, t)
	for i := 0; i < count; i++ {
		a.GetNextTransition(t)
		builder.AddTransition(0, t.Dest+1, t.Min, t.Max)
	}

	numStates := a.GetNumStates()
	for s := 0; s < numStates; s++ {
		if a.IsAccept(s) {
			count = a.InitTransition(0, t)
			for i := 0; i < count; i++ {
				a.GetNextTransition(t)
				builder.AddTransition(s+1, t.Dest+1, t.Min, t.Max)
			}
		}
	}

	return builder.Finish(), nil
}

// RepeatCount returns an automaton that accepts min or more
// concatenated repetitions of the language of the given automaton.
func RepeatCount(a *Automaton, count int) (*Automaton, error) {
	if count == 0 {
		return Repeat(a)
	}
	as := make([]*Automaton, 0, count+1)
	for count > 0 {
		count--
		as = append(as, a)
	}

	ra, err := Repeat(a)
	if err != nil {
		return nil, err
	}
	as = append(as, ra)

	return Concatenate(as...)
}

// RepeatRange returns an automaton that accepts between min and max
// (including both) concatenated repetitions of the language of the
// given automaton.
func RepeatRange(a *Automaton, min, max int) (*Automaton, error) {
	if min > max {
		return defaultAutomata.MakeEmpty(), nil
	}

	var b *Automaton
	var err error
	switch {
	case min == 0:
		b = defaultAutomata.MakeEmptyString()
	case min == 1:
		b = NewAutomaton()
		b.Copy(a)
	default:
		as := make([]*Automaton, 0, min)
		for i := 0; i < min; i++ {
			as = append(as, a)
		}
		b, err = Concatenate(as...)
		if err != nil {
			return nil, err
		}
	}

	prevAcceptStates := toSet(b, 0)
	builder := NewBuilder()
	builder.Copy(b)
	for i := min; i < max; i++ {
		numStates := builder.GetNumStates()
		builder.Copy(a)
		for s := range prevAcceptStates {
			builder.AddEpsilon(s, numStates)
		}
		prevAcceptStates = toSet(a, numStates)
	}

	return builder.Finish(), nil
}

func toSet(a *Automaton, offset int) map[int]struct{} {
	numStates := uint(a.GetNumStates())
	isAccept := a.getAcceptStates()
	result := make(map[int]struct{})

	for upto, ok := isAccept.NextSet(0); ok && upto < numStates; upto, ok = isAccept.NextSet(upto + 1) {
		result[offset+int(upto)] = struct{}{}
	}

	return result
}

// totalize returns an automaton with the same language, but with a
// transition defined on every state for every label, routing the rest
// of the alphabet to a dead sink state.
func totalize(a *Automaton) (*Automaton, error) {
	result := NewAutomaton()
	numStates := a.GetNumStates()
	for i := 0; i < numStates; i++ {
		result.CreateState()
		result.SetAccept(i, a.IsAccept(i))
	}

	deadState := result.CreateState()
	if err := result.AddTransition(deadState, deadState, 0, maxCodePoint); err != nil {
		return nil, err
	}

	t := NewTransition()
	for i := 0; i < numStates; i++ {
		maxi := 0
		count := a.InitTransition(i, t)
		for j := 0; j < count; j++ {
			a.GetNextTransition(t)
			if err := result.AddTransition(i, t.Dest, t.Min, t.Max); err != nil {
				return nil, err
			}
			if t.Min > maxi {
				if err := result.AddTransition(i, deadState, maxi, t.Min-1); err != nil {
					return nil, err
				}
			}
			if t.Max+1 > maxi {
				maxi = t.Max + 1
			}
		}

		if maxi <= maxCodePoint {
			if err := result.AddTransition(i, deadState, maxi, maxCodePoint); err != nil {
				return nil, err
			}
		}
	}

	result.FinishState()
	return result, nil
}

// Complement returns a (deterministic) automaton that accepts the
// complement of the language of the given automaton.
func Complement(a *Automaton, determinizeWorkLimit int) (*Automaton, error) {
	a, err := Determinize(a, determinizeWorkLimit)
	if err != nil {
		return nil, err
	}
	a, err = totalize(a)
	if err != nil {
		return nil, err
	}
	numStates := a.GetNumStates()
	for p := 0; p < numStates; p++ {
		a.SetAccept(p, !a.IsAccept(p))
	}
	return RemoveDeadStates(a)
}

// Intersection returns an automaton that accepts the intersection of
// the languages of the given automata. Never modifies the input
// automata languages.
func Intersection(a1, a2 *Automaton) (*Automaton, error) {
	if a1 == a2 {
		return a1, nil
	}
	if a1.GetNumStates() == 0 {
		return a1, nil
	}
	if a2.GetNumStates() == 0 {
		return a2, nil
	}

	transitions1 := a1.getSortedTransitions()
	transitions2 := a2.getSortedTransitions()

	c := NewAutomaton()
	c.CreateState()

	type statePair struct {
		s1, s2 int
	}
	worklist := make([]statePair, 0)
	newstates := make(map[statePair]int)

	p := statePair{0, 0}
	worklist = append(worklist, p)
	newstates[p] = 0

	for len(worklist) > 0 {
		p = worklist[0]
		worklist = worklist[1:]
		s := newstates[p]
		c.SetAccept(s, a1.IsAccept(p.s1) && a2.IsAccept(p.s2))

		t1 := transitions1[p.s1]
		t2 := transitions2[p.s2]
		for n1, b2 := 0, 0; n1 < len(t1); n1++ {
			for b2 < len(t2) && t2[b2].Max < t1[n1].Min {
				b2++
			}
			for n2 := b2; n2 < len(t2) && t1[n1].Max >= t2[n2].Min; n2++ {
				if t2[n2].Max < t1[n1].Min {
					continue
				}
				q := statePair{t1[n1].Dest, t2[n2].Dest}
				r, ok := newstates[q]
				if !ok {
					r = c.CreateState()
					worklist = append(worklist, q)
					newstates[q] = r
				}
				minLabel := max(t1[n1].Min, t2[n2].Min)
				maxLabel := min(t1[n1].Max, t2[n2].Max)
				if err := c.AddTransition(s, r, minLabel, maxLabel); err != nil {
					return nil, err
				}
			}
		}
	}
	c.FinishState()
	return RemoveDeadStates(c)
}

// Reverse returns an automaton accepting the reverse language.
func Reverse(a *Automaton) (*Automaton, error) {
	return reverseWithInitial(a, nil)
}

// reverseWithInitial reverses the automaton; if initialStates is
// non-nil it is filled with the new initial states (the old accept
// states, shifted by one for the synthetic epsilon source).
func reverseWithInitial(a *Automaton, initialStates map[int]struct{}) (*Automaton, error) {
	if IsEmpty(a) {
		return NewAutomaton(), nil
	}

	numStates := a.GetNumStates()

	// Build a new automaton with all edges reversed
	builder := NewBuilder()

	// Initial node; we'll add epsilon transitions in the end:
	builder.CreateState()

	for s := 0; s < numStates; s++ {
		builder.CreateState()
	}

	// Old initial state becomes new accept state:
	builder.SetAccept(1, true)

	t := NewTransition()
	for s := 0; s < numStates; s++ {
		numTransitions := a.GetNumTransitionsWithState(s)
		a.InitTransition(s, t)
		for i := 0; i < numTransitions; i++ {
			a.GetNextTransition(t)
			builder.AddTransition(t.Dest+1, s+1, t.Min, t.Max)
		}
	}

	result := builder.Finish()

	acceptStates := a.getAcceptStates()
	for s, ok := acceptStates.NextSet(0); ok && int(s) < numStates; s, ok = acceptStates.NextSet(s + 1) {
		result.AddEpsilon(0, int(s)+1)
		if initialStates != nil {
			initialStates[int(s)+1] = struct{}{}
		}
	}

	result.FinishState()

	return result, nil
}

// RemoveDeadStates returns an automaton with the same language, but
// without dead states: states that are unreachable from the initial
// state or cannot reach an accept state.
func RemoveDeadStates(a *Automaton) (*Automaton, error) {
	numStates := a.GetNumStates()
	liveSet := getLiveStates(a)

	mp := make([]int, numStates)

	result := NewAutomaton()
	for i := 0; i < numStates; i++ {
		if liveSet.Test(uint(i)) {
			mp[i] = result.CreateState()
			result.SetAccept(mp[i], a.IsAccept(i))
		}
	}

	t := NewTransition()

	for i := 0; i < numStates; i++ {
		if liveSet.Test(uint(i)) {
			numTransitions := a.InitTransition(i, t)
			// filter out transitions to dead states:
			for j := 0; j < numTransitions; j++ {
				a.GetNextTransition(t)
				if liveSet.Test(uint(t.Dest)) {
					if err := result.AddTransition(mp[i], mp[t.Dest], t.Min, t.Max); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	result.FinishState()
	return result, nil
}

func getLiveStates(a *Automaton) *bitset.BitSet {
	live := getLiveStatesFromInitial(a)
	live.InPlaceIntersection(getLiveStatesToAccept(a))
	return live
}

// States reachable from the initial state.
func getLiveStatesFromInitial(a *Automaton) *bitset.BitSet {
	numStates := a.GetNumStates()
	live := bitset.New(uint(numStates))
	if numStates == 0 {
		return live
	}
	workList := make([]int, 0)
	live.Set(0)
	workList = append(workList, 0)

	t := NewTransition()
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if !live.Test(uint(t.Dest)) {
				live.Set(uint(t.Dest))
				workList = append(workList, t.Dest)
			}
		}
	}

	return live
}

// States from which an accept state is reachable. Walks the automaton
// with all edges flipped, starting from the accept states.
func getLiveStatesToAccept(a *Automaton) *bitset.BitSet {
	builder := NewBuilder()

	t := NewTransition()
	numStates := a.GetNumStates()
	for s := 0; s < numStates; s++ {
		builder.CreateState()
	}
	for s := 0; s < numStates; s++ {
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			builder.AddTransition(t.Dest, s, t.Min, t.Max)
		}
	}
	a2 := builder.Finish()

	workList := make([]int, 0)
	live := bitset.New(uint(numStates))
	acceptBits := a.getAcceptStates()
	for s, ok := acceptBits.NextSet(0); ok && int(s) < numStates; s, ok = acceptBits.NextSet(s + 1) {
		live.Set(s)
		workList = append(workList, int(s))
	}

	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		count := a2.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a2.GetNextTransition(t)
			if !live.Test(uint(t.Dest)) {
				live.Set(uint(t.Dest))
				workList = append(workList, t.Dest)
			}
		}
	}

	return live
}

func hasDeadStatesFromInitial(a *Automaton) bool {
	reachableFromInitial := getLiveStatesFromInitial(a)
	reachableFromAccept := getLiveStatesToAccept(a)
	return reachableFromInitial.DifferenceCardinality(reachableFromAccept) > 0
}

// GetCommonPrefix returns the longest string that is a prefix of all
// accepted strings and visits each state at most once. The automaton
// must not have dead states reachable from the initial state.
func GetCommonPrefix(a *Automaton) (string, error) {
	if hasDeadStatesFromInitial(a) {
		return "", errors.New("input automaton has dead states")
	}
	if IsEmpty(a) {
		return "", nil
	}
	var builder strings.Builder
	scratch := NewTransition()
	visited := bitset.New(uint(a.GetNumStates()))
	current := bitset.New(uint(a.GetNumStates()))
	next := bitset.New(uint(a.GetNumStates()))
	current.Set(0) // start with initial state

algorithm:
	for {
		label := -1
		// do a pass, stepping all current paths forward once:
		for state, ok := current.NextSet(0); ok; state, ok = current.NextSet(state + 1) {
			visited.Set(state)
			// if it is an accept state, we are done:
			if a.IsAccept(int(state)) {
				break algorithm
			}
			for transition := 0; transition < a.GetNumTransitionsWithState(int(state)); transition++ {
				a.getTransition(int(state), transition, scratch)
				if label == -1 {
					label = scratch.Min
				}
				// either a range of labels, or a label that doesn't
				// match all the other paths this round:
				if scratch.Min != scratch.Max || scratch.Min != label {
					break algorithm
				}
				// the one-way building path became a loop:
				if visited.Test(uint(scratch.Dest)) {
					break algorithm
				}
				// mark the target state for next iteration:
				next.Set(uint(scratch.Dest))
			}
			if state+1 >= current.Len() {
				break
			}
		}

		builder.WriteRune(rune(label))
		// swap "current" with "next", clear "next":
		current, next = next, current
		next.ClearAll()
	}
	return builder.String(), nil
}
