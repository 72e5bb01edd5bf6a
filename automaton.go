package automaton

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Automaton represents an automaton and all its states and transitions.
// States are integers and must be created using CreateState. Mark a
// state as an accept state using SetAccept. Add transitions using
// AddTransition. Each state must have all of its transitions added at
// once; if this is too restrictive then use Builder instead. State 0 is
// always the initial state. Once a state is finished, either because
// you've started adding transitions to another state or you call
// FinishState, that state's transitions are sorted (first by min, then
// max, then dest) and reduced (transitions with adjacent labels going
// to the same dest are combined).
type Automaton struct {
	// Write cursor into transitions; increments by 3 per added
	// transition because we pack dest, min, max in sequence.
	nextTransition int

	// Current state we are adding transitions to; the caller must add
	// all transitions for this state before moving onto another state.
	curState int

	// Index in the transitions array where this state's leaving
	// transitions are stored, or -1 if none added yet, followed by the
	// number of transitions. Two slots per state.
	states []int

	isAccept *bitset.BitSet

	// Holds dest, min, max for each transition.
	transitions []int

	// True if no state has two transitions leaving with the same label.
	deterministic bool
}

func NewAutomaton() *Automaton {
	return NewAutomatonSized(2, 2)
}

func NewAutomatonSized(numStates, numTransitions int) *Automaton {
	return &Automaton{
		curState:      -1,
		deterministic: true,
		states:        make([]int, 0, numStates*2),
		isAccept:      bitset.New(uint(numStates)),
		transitions:   make([]int, 0, numTransitions*3),
	}
}

// CreateState creates a new state.
func (a *Automaton) CreateState() int {
	state := len(a.states) / 2
	a.states = append(a.states, -1, 0)
	return state
}

// SetAccept sets or clears this state as an accept state.
func (a *Automaton) SetAccept(state int, accept bool) {
	a.isAccept.SetTo(uint(state), accept)
}

// Sugar to get all transitions for all states. This is object-heavy;
// it's better to iterate state by state instead.
func (a *Automaton) getSortedTransitions() [][]Transition {
	numStates := a.GetNumStates()
	transitions := make([][]Transition, numStates)

	for s := 0; s < numStates; s++ {
		numTransitions := a.GetNumTransitionsWithState(s)
		transitions[s] = make([]Transition, numTransitions)

		for t := 0; t < numTransitions; t++ {
			transition := Transition{}
			a.getTransition(s, t, &transition)
			transitions[s][t] = transition
		}
	}

	return transitions
}

// Returns accept states. If the bit is set then that state is an accept state.
func (a *Automaton) getAcceptStates() *bitset.BitSet {
	return a.isAccept
}

// IsAccept returns true if this state is an accept state.
func (a *Automaton) IsAccept(state int) bool {
	return a.isAccept.Test(uint(state))
}

// AddTransitionLabel adds a new transition with min = max = label.
func (a *Automaton) AddTransitionLabel(source, dest, label int) error {
	return a.AddTransition(source, dest, label, label)
}

// AddTransition adds a new transition with the specified source, dest, min, max.
func (a *Automaton) AddTransition(source, dest, min, max int) error {
	bounds := len(a.states) / 2
	if source >= bounds {
		return fmt.Errorf("source=%d is out of bounds (numStates=%d)", source, bounds)
	}
	if dest >= bounds {
		return fmt.Errorf("dest=%d is out of bounds (numStates=%d)", dest, bounds)
	}

	a.growTransitions()
	if a.curState != source {
		if a.curState != -1 {
			a.finishCurrentState()
		}

		// Move to next source:
		a.curState = source
		if a.states[2*a.curState] != -1 {
			return fmt.Errorf("from state (%d) already had transitions added", source)
		}
		a.states[2*a.curState] = a.nextTransition
	}

	a.transitions[a.nextTransition] = dest
	a.nextTransition++
	a.transitions[a.nextTransition] = min
	a.nextTransition++
	a.transitions[a.nextTransition] = max
	a.nextTransition++

	// Increment transition count for this state
	a.states[2*a.curState+1]++
	return nil
}

// AddEpsilon adds a [virtual] epsilon transition between source and
// dest. Dest state must already have all transitions added because
// this method simply copies those same transitions over to source.
func (a *Automaton) AddEpsilon(source, dest int) {
	t := Transition{}
	count := a.InitTransition(dest, &t)

	for i := 0; i < count; i++ {
		a.GetNextTransition(&t)
		_ = a.AddTransition(source, t.Dest, t.Min, t.Max)
	}

	if a.IsAccept(dest) {
		a.SetAccept(source, true)
	}
}

// Copy copies over all states and transitions from other. The state
// numbers are sequentially assigned (appended).
func (a *Automaton) Copy(other *Automaton) {
	// Bulk copy and then fixup the state pointers:
	stateOffset := a.GetNumStates()

	nextState := len(a.states)
	a.states = append(a.states, other.states...)
	for i := nextState; i < len(a.states); i += 2 {
		if a.states[i] != -1 {
			a.states[i] += a.nextTransition
		}
	}

	otherNumStates := other.GetNumStates()
	otherAcceptStates := other.getAcceptStates()
	for state, ok := otherAcceptStates.NextSet(0); ok && int(state) < otherNumStates; state, ok = otherAcceptStates.NextSet(state + 1) {
		a.SetAccept(stateOffset+int(state), true)
	}

	// Bulk copy and then fixup dest for each transition:
	a.transitions = grow(a.transitions, a.nextTransition+other.nextTransition)
	copy(a.transitions[a.nextTransition:a.nextTransition+other.nextTransition], other.transitions)
	for i := 0; i < other.nextTransition; i += 3 {
		a.transitions[a.nextTransition+i] += stateOffset
	}
	a.nextTransition += other.nextTransition

	if !other.deterministic {
		a.deterministic = false
	}
}

// Freezes the last state, sorting and reducing the transitions.
func (a *Automaton) finishCurrentState() {
	numTransitions := a.states[2*a.curState+1]

	offset := a.states[2*a.curState]
	start := offset / 3

	sort.Sort(&transitionSorter{
		from:        start,
		count:       numTransitions,
		transitions: a.transitions,
		destFirst:   true,
	})

	// Merge transitions to the same dest with adjacent or overlapping
	// label ranges. accDest == -1 means nothing accumulated yet.
	kept := 0
	accDest, accMin, accMax := -1, -1, -1

	flush := func() {
		if accDest == -1 {
			return
		}
		a.transitions[offset+3*kept] = accDest
		a.transitions[offset+3*kept+1] = accMin
		a.transitions[offset+3*kept+2] = accMax
		kept++
	}

	for i := 0; i < numTransitions; i++ {
		tDest := a.transitions[offset+3*i]
		tMin := a.transitions[offset+3*i+1]
		tMax := a.transitions[offset+3*i+2]

		if tDest == accDest && tMin <= accMax+1 {
			if tMax > accMax {
				accMax = tMax
			}
			continue
		}
		flush()
		accDest, accMin, accMax = tDest, tMin, tMax
	}
	flush()

	a.nextTransition -= (numTransitions - kept) * 3
	a.states[2*a.curState+1] = kept

	// Final order is by min/max/dest:
	sort.Sort(&transitionSorter{
		from:        start,
		count:       kept,
		transitions: a.transitions,
	})

	if a.deterministic && kept > 1 {
		lastMax := a.transitions[offset+2]
		for i := 1; i < kept; i++ {
			if a.transitions[offset+3*i+1] <= lastMax {
				a.deterministic = false
				break
			}
			lastMax = a.transitions[offset+3*i+2]
		}
	}
}

// IsDeterministic returns true if this automaton is deterministic
// (for every state there is at most one transition for each label).
func (a *Automaton) IsDeterministic() bool {
	return a.deterministic
}

// FinishState finishes the current state; call this once you are done
// adding transitions for a state. This is automatically called if you
// start adding transitions to a new source state, but for the last
// state you add you need to call this method yourself.
func (a *Automaton) FinishState() {
	if a.curState != -1 {
		a.finishCurrentState()
		a.curState = -1
	}
}

// GetNumStates returns how many states this automaton has.
func (a *Automaton) GetNumStates() int {
	return len(a.states) / 2
}

// GetNumTransitions returns how many transitions this automaton has.
func (a *Automaton) GetNumTransitions() int {
	return a.nextTransition / 3
}

// GetNumTransitionsWithState returns how many transitions this state has.
func (a *Automaton) GetNumTransitionsWithState(state int) int {
	count := a.states[2*state+1]
	if count == -1 {
		return 0
	}
	return count
}

func (a *Automaton) growTransitions() {
	if a.nextTransition+3 > len(a.transitions) {
		a.transitions = grow(a.transitions, a.nextTransition+3)
	}
}

// Sorts a state's packed transitions in place. The default order is
// min label, then max label, then dest; with destFirst the dest is the
// primary key instead (used before merging adjacent ranges).
type transitionSorter struct {
	from, count int
	transitions []int
	destFirst   bool
}

func (r *transitionSorter) Len() int {
	return r.count
}

func (r *transitionSorter) keys(i int) (int, int, int) {
	start := 3 * (r.from + i)
	dest := r.transitions[start]
	min := r.transitions[start+1]
	max := r.transitions[start+2]
	if r.destFirst {
		return dest, min, max
	}
	return min, max, dest
}

func (r *transitionSorter) Less(i, j int) bool {
	ik1, ik2, ik3 := r.keys(i)
	jk1, jk2, jk3 := r.keys(j)
	if ik1 != jk1 {
		return ik1 < jk1
	}
	if ik2 != jk2 {
		return ik2 < jk2
	}
	return ik3 < jk3
}

func (r *transitionSorter) Swap(i, j int) {
	iStart := 3 * (r.from + i)
	jStart := 3 * (r.from + j)
	for k := 0; k < 3; k++ {
		r.transitions[iStart+k], r.transitions[jStart+k] =
			r.transitions[jStart+k], r.transitions[iStart+k]
	}
}

// InitTransition initializes the provided Transition to iterate
// through all transitions leaving the specified state. You must call
// GetNextTransition to get each transition. Returns the number of
// transitions leaving this state.
func (a *Automaton) InitTransition(state int, t *Transition) int {
	t.Source = state
	t.TransitionUpto = a.states[2*state]
	return a.GetNumTransitionsWithState(state)
}

// GetNextTransition iterates to the next transition after the provided one.
func (a *Automaton) GetNextTransition(t *Transition) {
	t.Dest = a.transitions[t.TransitionUpto]
	t.TransitionUpto++
	t.Min = a.transitions[t.TransitionUpto]
	t.TransitionUpto++
	t.Max = a.transitions[t.TransitionUpto]
	t.TransitionUpto++
}

// Fill the provided Transition with the index'th transition leaving
// the specified state.
func (a *Automaton) getTransition(state, index int, t *Transition) {
	i := a.states[2*state] + 3*index
	t.Source = state
	t.Dest = a.transitions[i]
	t.Min = a.transitions[i+1]
	t.Max = a.transitions[i+2]
}

// GetStartPoints returns the sorted array of all interval start points.
func (a *Automaton) GetStartPoints() []int {
	pointset := make(map[int]struct{})
	pointset[0] = struct{}{}

	for s := 0; s < len(a.states); s += 2 {
		trans := a.states[s]
		limit := trans + 3*a.states[s+1]
		for trans < limit {
			minTrans := a.transitions[trans+1]
			maxTrans := a.transitions[trans+2]
			pointset[minTrans] = struct{}{}
			if maxTrans < maxCodePoint {
				pointset[maxTrans+1] = struct{}{}
			}
			trans += 3
		}
	}

	points := make([]int, 0, len(pointset))
	for k := range pointset {
		points = append(points, k)
	}
	sort.Ints(points)
	return points
}

// Step performs lookup in transitions, assuming determinism.
// Returns the destination state, or -1 if there is no matching
// outgoing transition.
func (a *Automaton) Step(state, label int) int {
	return a.next(state, 0, label, nil)
}

// Next looks for the next transition that matches the provided label,
// assuming determinism. Similar to Step but used more efficiently when
// iterating over multiple transitions from the same source state: the
// latest reached transition index is kept in transition.TransitionUpto
// so the next call can continue from there instead of restarting from
// the first transition.
func (a *Automaton) Next(transition *Transition, label int) int {
	return a.next(transition.Source, transition.TransitionUpto, label, transition)
}

// Looks for the next transition that matches the provided label,
// assuming determinism. Binary searches the state's sorted transitions
// for one whose [min, max] contains label.
func (a *Automaton) next(state, fromTransitionIndex, label int, transition *Transition) int {
	stateIndex := 2 * state
	firstTransitionIndex := a.states[stateIndex]
	numTransitions := a.states[stateIndex+1]

	low := max(fromTransitionIndex, 0)
	high := numTransitions - 1

	for low <= high {
		mid := (low + high) >> 1
		transitionIndex := firstTransitionIndex + 3*mid
		minLabel := a.transitions[transitionIndex+1]
		if minLabel > label {
			high = mid - 1
		} else {
			maxLabel := a.transitions[transitionIndex+2]
			if maxLabel < label {
				low = mid + 1
			} else {
				destState := a.transitions[transitionIndex]
				if transition != nil {
					transition.Dest = destState
					transition.Min = minLabel
					transition.Max = maxLabel
					transition.TransitionUpto = mid
				}
				return destState
			}
		}
	}

	destState := -1
	if transition != nil {
		transition.Dest = destState
		transition.TransitionUpto = low
	}
	return destState
}
