package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatenate(t *testing.T) {
	automata := &Automata{}

	a1, err := automata.MakeString("m")
	assert.Nil(t, err)
	a2, err := automata.MakeAnyString()
	assert.Nil(t, err)
	a3, err := automata.MakeString("n")
	assert.Nil(t, err)
	a4, err := automata.MakeAnyString()
	assert.Nil(t, err)

	a, err := Concatenate(a1, a2, a3, a4)
	assert.Nil(t, err)
	a, err = Determinize(a, 10000)
	assert.Nil(t, err)

	assert.True(t, Run(a, "mn"))
	assert.True(t, Run(a, "mone"))
	assert.False(t, Run(a, "m"))
	assert.False(t, Run(a, "nm"))
}

func TestUnion(t *testing.T) {
	automata := &Automata{}

	a1, err := automata.MakeString("cat")
	assert.Nil(t, err)
	a2, err := automata.MakeString("cow")
	assert.Nil(t, err)

	a, err := Union(a1, a2)
	assert.Nil(t, err)
	a, err = Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.True(t, Run(a, "cat"))
	assert.True(t, Run(a, "cow"))
	assert.False(t, Run(a, "ca"))
	assert.False(t, Run(a, "dog"))
}

func TestOptional(t *testing.T) {
	a1, err := defaultAutomata.MakeString("hi")
	assert.Nil(t, err)

	a, err := Optional(a1)
	assert.Nil(t, err)
	a, err = Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "hi"))
	assert.False(t, Run(a, "h"))
}

func TestRepeat(t *testing.T) {
	a1, err := defaultAutomata.MakeString("ab")
	assert.Nil(t, err)

	a, err := Repeat(a1)
	assert.Nil(t, err)
	a, err = Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "ab"))
	assert.True(t, Run(a, "ababab"))
	assert.False(t, Run(a, "aba"))
}

func TestRepeatRange(t *testing.T) {
	a1, err := defaultAutomata.MakeString("a")
	assert.Nil(t, err)

	a, err := RepeatRange(a1, 2, 3)
	assert.Nil(t, err)
	a, err = Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.False(t, Run(a, "a"))
	assert.True(t, Run(a, "aa"))
	assert.True(t, Run(a, "aaa"))
	assert.False(t, Run(a, "aaaa"))
}

func TestIntersection(t *testing.T) {
	a1, err := defaultAutomata.MakeString("ab")
	assert.Nil(t, err)

	anyChar, err := defaultAutomata.MakeAnyChar()
	assert.Nil(t, err)
	aChar, err := defaultAutomata.MakeChar('a')
	assert.Nil(t, err)
	a2, err := Concatenate(aChar, anyChar)
	assert.Nil(t, err)

	a, err := Intersection(a1, a2)
	assert.Nil(t, err)
	a, err = Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.True(t, Run(a, "ab"))
	assert.False(t, Run(a, "ac"))
	assert.False(t, Run(a, "a"))
}

func TestComplement(t *testing.T) {
	a1, err := defaultAutomata.MakeString("a")
	assert.Nil(t, err)

	a, err := Complement(a1, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.False(t, Run(a, "a"))
	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "b"))
	assert.True(t, Run(a, "aa"))
}

func TestReverse(t *testing.T) {
	a1, err := defaultAutomata.MakeString("abc")
	assert.Nil(t, err)

	a, err := Reverse(a1)
	assert.Nil(t, err)
	a, err = Determinize(a, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.True(t, Run(a, "cba"))
	assert.False(t, Run(a, "abc"))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(defaultAutomata.MakeEmpty()))
	assert.False(t, IsEmpty(defaultAutomata.MakeEmptyString()))

	a, err := defaultAutomata.MakeString("a")
	assert.Nil(t, err)
	assert.False(t, IsEmpty(a))

	// Accept state exists but is unreachable:
	b := NewAutomaton()
	b.CreateState()
	b.CreateState()
	b.SetAccept(1, true)
	b.FinishState()
	assert.True(t, IsEmpty(b))
}

func TestRemoveDeadStates(t *testing.T) {
	a := NewAutomaton()
	a.CreateState()
	a.CreateState()
	a.CreateState()
	a.SetAccept(1, true)
	assert.NoError(t, a.AddTransitionLabel(0, 1, 'a'))
	// State 2 is reachable but cannot reach an accept state:
	assert.NoError(t, a.AddTransitionLabel(1, 2, 'b'))
	a.FinishState()

	trimmed, err := RemoveDeadStates(a)
	assert.Nil(t, err)
	assert.Equal(t, 2, trimmed.GetNumStates())
	assert.True(t, Run(trimmed, "a"))
	assert.False(t, Run(trimmed, "ab"))
}

func TestGetCommonPrefix(t *testing.T) {
	a1, err := defaultAutomata.MakeString("foobar")
	assert.Nil(t, err)
	prefix, err := GetCommonPrefix(a1)
	assert.Nil(t, err)
	assert.Equal(t, "foobar", prefix)

	a2, err := defaultAutomata.MakeString("foobaz")
	assert.Nil(t, err)
	u, err := Union(a1, a2)
	assert.Nil(t, err)
	prefix, err = GetCommonPrefix(u)
	assert.Nil(t, err)
	assert.Equal(t, "fooba", prefix)

	empty := defaultAutomata.MakeEmpty()
	prefix, err = GetCommonPrefix(empty)
	assert.Nil(t, err)
	assert.Equal(t, "", prefix)
}
