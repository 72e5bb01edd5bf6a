package automaton

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Builder allows building a non-deterministic Automaton without the
// constraint that all transitions leaving a state must be added at
// once. Transitions are buffered as (source, min, max, dest) quads and
// sorted by source when Finish is called, then fed to an Automaton.
type Builder struct {
	numStates   int
	isAccept    *bitset.BitSet
	transitions []int
	next        int
}

func NewBuilder() *Builder {
	return NewBuilderSized(16, 16)
}

func NewBuilderSized(numStates, numTransitions int) *Builder {
	return &Builder{
		isAccept:    bitset.New(uint(numStates)),
		transitions: make([]int, 0, numTransitions*4),
	}
}

// CreateState creates a new state.
func (b *Builder) CreateState() int {
	state := b.numStates
	b.numStates++
	return state
}

// SetAccept sets or clears this state as an accept state.
func (b *Builder) SetAccept(state int, accept bool) {
	b.isAccept.SetTo(uint(state), accept)
}

// IsAccept returns true if this state is an accept state.
func (b *Builder) IsAccept(state int) bool {
	return b.isAccept.Test(uint(state))
}

// GetNumStates returns how many states this builder has so far.
func (b *Builder) GetNumStates() int {
	return b.numStates
}

// AddTransitionLabel adds a new transition with min = max = label.
func (b *Builder) AddTransitionLabel(source, dest, label int) {
	b.AddTransition(source, dest, label, label)
}

// AddTransition adds a new transition with the specified source, dest, min, max.
func (b *Builder) AddTransition(source, dest, min, max int) {
	if b.next+4 > len(b.transitions) {
		b.transitions = grow(b.transitions, b.next+4)
	}
	b.transitions[b.next] = source
	b.transitions[b.next+1] = min
	b.transitions[b.next+2] = max
	b.transitions[b.next+3] = dest
	b.next += 4
}

// AddEpsilon adds a [virtual] epsilon transition between source and
// dest by copying all transitions added so far that leave dest over to
// source. Dest's transitions must already have been added.
func (b *Builder) AddEpsilon(source, dest int) {
	for upto := 0; upto < b.next; upto += 4 {
		if b.transitions[upto] == dest {
			b.AddTransition(source, b.transitions[upto+3], b.transitions[upto+1], b.transitions[upto+2])
		}
	}
	if b.IsAccept(dest) {
		b.SetAccept(source, true)
	}
}

// Copy copies over all states and transitions from other; the state
// numbers are sequentially assigned (appended).
func (b *Builder) Copy(other *Automaton) {
	offset := b.GetNumStates()
	numStates := other.GetNumStates()
	b.CopyStates(other)

	t := NewTransition()
	for s := 0; s < numStates; s++ {
		count := other.InitTransition(s, t)
		for i := 0; i < count; i++ {
			other.GetNextTransition(t)
			b.AddTransition(offset+s, offset+t.Dest, t.Min, t.Max)
		}
	}
}

// CopyStates copies over all states (but not transitions) from other.
func (b *Builder) CopyStates(other *Automaton) {
	numStates := other.GetNumStates()
	for s := 0; s < numStates; s++ {
		newState := b.CreateState()
		b.SetAccept(newState, other.IsAccept(s))
	}
}

// Finish compiles all added states and transitions into a new Automaton
// and returns it.
func (b *Builder) Finish() *Automaton {
	numTransitions := b.next / 4
	a := NewAutomatonSized(b.numStates, numTransitions)

	for state := 0; state < b.numStates; state++ {
		a.CreateState()
		a.SetAccept(state, b.IsAccept(state))
	}

	sort.Sort(&builderSorter{values: b.transitions, size: numTransitions})

	for upto := 0; upto < b.next; upto += 4 {
		// Quads are (source, min, max, dest).
		_ = a.AddTransition(b.transitions[upto], b.transitions[upto+3], b.transitions[upto+1], b.transitions[upto+2])
	}

	a.FinishState()
	return a
}

var _ sort.Interface = &builderSorter{}

// Sorts the quads lexicographically: by source, then min, max, dest.
type builderSorter struct {
	values []int
	size   int
}

func (b *builderSorter) Len() int {
	return b.size
}

func (b *builderSorter) Less(i, j int) bool {
	i *= 4
	j *= 4

	for k := 0; k < 4; k++ {
		if b.values[i+k] != b.values[j+k] {
			return b.values[i+k] < b.values[j+k]
		}
	}
	return false
}

func (b *builderSorter) Swap(i, j int) {
	i *= 4
	j *= 4

	for k := 0; k < 4; k++ {
		b.values[i+k], b.values[j+k] = b.values[j+k], b.values[i+k]
	}
}
