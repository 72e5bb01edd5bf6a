package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutomatonStates(t *testing.T) {
	a := NewAutomaton()
	s0 := a.CreateState()
	s1 := a.CreateState()
	assert.Equal(t, 0, s0)
	assert.Equal(t, 1, s1)
	assert.Equal(t, 2, a.GetNumStates())

	assert.False(t, a.IsAccept(s1))
	a.SetAccept(s1, true)
	assert.True(t, a.IsAccept(s1))
	a.SetAccept(s1, false)
	assert.False(t, a.IsAccept(s1))
}

func TestAutomatonSortsAndReducesTransitions(t *testing.T) {
	a := NewAutomaton()
	a.CreateState()
	a.CreateState()

	// Out of order and overlapping; same dest:
	assert.NoError(t, a.AddTransition(0, 1, 'b', 'b'))
	assert.NoError(t, a.AddTransition(0, 1, 'a', 'a'))
	assert.NoError(t, a.AddTransition(0, 1, 'c', 'd'))
	a.FinishState()

	// Adjacent labels to the same dest collapse into one transition:
	assert.Equal(t, 1, a.GetNumTransitionsWithState(0))

	tr := NewTransition()
	a.InitTransition(0, tr)
	a.GetNextTransition(tr)
	assert.Equal(t, int('a'), tr.Min)
	assert.Equal(t, int('d'), tr.Max)
	assert.Equal(t, 1, tr.Dest)
}

func TestAutomatonDeterministicFlag(t *testing.T) {
	a := NewAutomaton()
	a.CreateState()
	a.CreateState()
	a.CreateState()

	assert.NoError(t, a.AddTransition(0, 1, 'a', 'm'))
	assert.NoError(t, a.AddTransition(0, 2, 'k', 'z'))
	a.FinishState()

	assert.False(t, a.IsDeterministic())
}

func TestAutomatonRejectsSplitStateBuilds(t *testing.T) {
	a := NewAutomaton()
	a.CreateState()
	a.CreateState()

	assert.NoError(t, a.AddTransitionLabel(0, 1, 'a'))
	assert.NoError(t, a.AddTransitionLabel(1, 1, 'b'))
	// Returning to state 0 after moving on is an error:
	assert.Error(t, a.AddTransitionLabel(0, 1, 'c'))

	b := NewAutomaton()
	b.CreateState()
	assert.Error(t, b.AddTransitionLabel(0, 3, 'a'))
	assert.Error(t, b.AddTransitionLabel(5, 0, 'a'))
}

func TestAutomatonStep(t *testing.T) {
	a, err := defaultAutomata.MakeString("go")
	assert.NoError(t, err)

	s := a.Step(0, 'g')
	assert.Equal(t, 1, s)
	s = a.Step(s, 'o')
	assert.Equal(t, 2, s)
	assert.True(t, a.IsAccept(s))

	assert.Equal(t, -1, a.Step(0, 'x'))
}

func TestAutomatonCopy(t *testing.T) {
	a1, err := defaultAutomata.MakeString("ab")
	assert.NoError(t, err)
	a2, err := defaultAutomata.MakeString("c")
	assert.NoError(t, err)

	combined := NewAutomaton()
	combined.Copy(a1)
	combined.Copy(a2)

	assert.Equal(t, a1.GetNumStates()+a2.GetNumStates(), combined.GetNumStates())
	// a1's accept state keeps its relative position; a2's is offset:
	assert.True(t, combined.IsAccept(2))
	assert.True(t, combined.IsAccept(a1.GetNumStates()+1))

	// Transition dests of the copied automaton are rebased:
	tr := NewTransition()
	count := combined.InitTransition(a1.GetNumStates(), tr)
	assert.Equal(t, 1, count)
	combined.GetNextTransition(tr)
	assert.Equal(t, a1.GetNumStates()+1, tr.Dest)
}

func TestAutomatonGetStartPoints(t *testing.T) {
	a, err := defaultAutomata.MakeCharRange('b', 'd')
	assert.NoError(t, err)

	points := a.GetStartPoints()
	assert.Equal(t, []int{0, 'b', 'e'}, points)
}

func TestBuilderOutOfOrderTransitions(t *testing.T) {
	b := NewBuilder()
	s0 := b.CreateState()
	s1 := b.CreateState()
	s2 := b.CreateState()
	b.SetAccept(s2, true)

	// Transitions may arrive in any source order:
	b.AddTransitionLabel(s1, s2, 'b')
	b.AddTransitionLabel(s0, s1, 'a')

	a := b.Finish()
	assert.Equal(t, 3, a.GetNumStates())
	assert.True(t, Run(a, "ab"))
	assert.False(t, Run(a, "a"))
	assert.False(t, Run(a, "ba"))
}

func TestBuilderAddEpsilon(t *testing.T) {
	b := NewBuilder()
	s0 := b.CreateState()
	s1 := b.CreateState()
	s2 := b.CreateState()
	b.SetAccept(s2, true)

	b.AddTransitionLabel(s1, s2, 'x')
	b.AddEpsilon(s0, s1)

	a := b.Finish()
	assert.True(t, Run(a, "x"))
	assert.False(t, Run(a, ""))
}

func TestAutomatonAddEpsilon(t *testing.T) {
	a := NewAutomaton()
	a.CreateState()
	a.CreateState()
	a.CreateState()
	a.SetAccept(2, true)

	assert.NoError(t, a.AddTransitionLabel(1, 2, 'z'))
	a.FinishState()
	a.AddEpsilon(0, 1)
	a.FinishState()

	assert.True(t, Run(a, "z"))
}
