package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterminizeSubsetConstruction(t *testing.T) {
	// (a|b)*b as an NFA: state 0 loops on a..b and also steps to the
	// accept state on b.
	b := NewBuilder()
	s0 := b.CreateState()
	s1 := b.CreateState()
	b.AddTransition(s0, s0, 'a', 'b')
	b.AddTransitionLabel(s0, s1, 'b')
	b.SetAccept(s1, true)
	a := b.Finish()
	assert.False(t, a.IsDeterministic())

	d, err := Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.True(t, d.IsDeterministic())

	// Subsets {0} and {0,1} are the only reachable DFA states; every
	// b-step lands on the same frozen set and is deduplicated.
	assert.Equal(t, 2, d.GetNumStates())

	assert.True(t, Run(d, "b"))
	assert.True(t, Run(d, "ab"))
	assert.True(t, Run(d, "aabab"))
	assert.False(t, Run(d, "a"))
	assert.False(t, Run(d, ""))
}

func TestDeterminizeUnion(t *testing.T) {
	automata := &Automata{}

	words := []string{"cat", "car", "cow"}
	as := make([]*Automaton, 0, len(words))
	for _, w := range words {
		a, err := automata.MakeString(w)
		assert.Nil(t, err)
		as = append(as, a)
	}

	u, err := Union(as...)
	assert.Nil(t, err)
	d, err := Determinize(u, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.True(t, d.IsDeterministic())

	for _, w := range words {
		assert.True(t, Run(d, w), "expected %q to be accepted", w)
	}
	assert.False(t, Run(d, "ca"))
	assert.False(t, Run(d, "cats"))
}

func TestDeterminizeAlreadyDeterministic(t *testing.T) {
	a, err := defaultAutomata.MakeString("abc")
	assert.Nil(t, err)

	d, err := Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.Same(t, a, d)
}

func TestDeterminizeWorkLimit(t *testing.T) {
	a := NewAutomaton()
	for i := 0; i <= 40; i++ {
		a.CreateState()
	}
	for i := 1; i <= 40; i++ {
		assert.NoError(t, a.AddTransition(0, i, 'a', 'z'))
	}
	a.SetAccept(40, true)
	a.FinishState()

	_, err := Determinize(a, 1)
	assert.ErrorIs(t, err, ErrTooComplexToDeterminize)

	d, err := Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.True(t, d.IsDeterministic())
}

func TestDeterminizeEmptyAndTrivial(t *testing.T) {
	empty := defaultAutomata.MakeEmpty()
	d, err := Determinize(empty, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.True(t, IsEmpty(d))

	es := defaultAutomata.MakeEmptyString()
	d, err = Determinize(es, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.True(t, Run(d, ""))
}
