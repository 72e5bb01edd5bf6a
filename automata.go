package automaton

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const maxCodePoint = int(unicode.MaxRune)

// Automata holds construction methods for frequently used automata.
type Automata struct {
}

var defaultAutomata = &Automata{}

// MakeEmpty returns a new (deterministic) automaton with the empty language.
func (*Automata) MakeEmpty() *Automaton {
	a := NewAutomaton()
	a.FinishState()
	return a
}

// MakeEmptyString returns a new (deterministic) automaton that accepts
// only the empty string.
func (*Automata) MakeEmptyString() *Automaton {
	a := NewAutomaton()
	a.CreateState()
	a.SetAccept(0, true)
	return a
}

// MakeAnyString returns a new (deterministic) automaton that accepts
// all strings.
func (*Automata) MakeAnyString() (*Automaton, error) {
	a := NewAutomaton()
	s := a.CreateState()
	a.SetAccept(s, true)
	if err := a.AddTransition(s, s, 0, maxCodePoint); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

// MakeAnyChar returns a new (deterministic) automaton that accepts any
// single codepoint.
func (*Automata) MakeAnyChar() (*Automaton, error) {
	return defaultAutomata.MakeCharRange(0, unicode.MaxRune)
}

// MakeChar returns a new (deterministic) automaton that accepts a
// single codepoint of the given value.
func (*Automata) MakeChar(c rune) (*Automaton, error) {
	return defaultAutomata.MakeCharRange(c, c)
}

// MakeCharRange returns a new (deterministic) automaton that accepts a
// single codepoint whose value is in the given interval (including
// both end points).
func (*Automata) MakeCharRange(min, max rune) (*Automaton, error) {
	if min > max {
		return defaultAutomata.MakeEmpty(), nil
	}
	a := NewAutomaton()
	s1 := a.CreateState()
	s2 := a.CreateState()
	a.SetAccept(s2, true)
	if err := a.AddTransition(s1, s2, int(min), int(max)); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

// MakeDecimalInterval returns a new automaton that accepts strings
// representing decimal (base 10) non-negative integers in the given
// interval, including both end points. If digits is non-zero, all
// accepted values have exactly that number of digits (with leading
// zeros); if zero, leading zeros are optional.
func (*Automata) MakeDecimalInterval(min, max, digits int) (*Automaton, error) {
	x := strconv.Itoa(min)
	y := strconv.Itoa(max)
	if min > max || (digits > 0 && len(y) > digits) {
		return nil, fmt.Errorf("invalid interval %d-%d (digits=%d)", min, max, digits)
	}

	d := digits
	if d <= 0 {
		d = len(y)
	}
	x = strings.Repeat("0", d-len(x)) + x
	y = strings.Repeat("0", d-len(y)) + y

	b := NewBuilder()
	if digits <= 0 {
		// Reserve the real initial state, the leading-zeros loop:
		b.CreateState()
	}

	initials := make([]int, 0)
	between(b, x, y, 0, &initials, digits <= 0)

	a := b.Finish()
	if digits <= 0 {
		if err := a.AddTransitionLabel(0, 0, '0'); err != nil {
			return nil, err
		}
		for _, p := range initials {
			a.AddEpsilon(0, p)
		}
		a.FinishState()
	}
	return a, nil
}

// Accepts any sequence of digits of the same length as x[n:].
func anyOfRightLength(b *Builder, x string, n int) int {
	s := b.CreateState()
	if len(x) == n {
		b.SetAccept(s, true)
	} else {
		b.AddTransition(s, anyOfRightLength(b, x, n+1), '0', '9')
	}
	return s
}

// Accepts any value >= x[n:] of the same length.
func atLeast(b *Builder, x string, n int, initials *[]int, zeros bool) int {
	s := b.CreateState()
	if len(x) == n {
		b.SetAccept(s, true)
	} else {
		if zeros {
			*initials = append(*initials, s)
		}
		c := int(x[n])
		b.AddTransitionLabel(s, atLeast(b, x, n+1, initials, zeros && c == '0'), c)
		if c < '9' {
			b.AddTransition(s, anyOfRightLength(b, x, n+1), c+1, '9')
		}
	}
	return s
}

// Accepts any value <= y[n:] of the same length.
func atMost(b *Builder, y string, n int) int {
	s := b.CreateState()
	if len(y) == n {
		b.SetAccept(s, true)
	} else {
		c := int(y[n])
		b.AddTransitionLabel(s, atMost(b, y, n+1), c)
		if c > '0' {
			b.AddTransition(s, anyOfRightLength(b, y, n+1), '0', c-1)
		}
	}
	return s
}

// Accepts any value between x[n:] and y[n:], including both.
func between(b *Builder, x, y string, n int, initials *[]int, zeros bool) int {
	s := b.CreateState()
	if len(x) == n {
		b.SetAccept(s, true)
	} else {
		if zeros {
			*initials = append(*initials, s)
		}
		cx, cy := int(x[n]), int(y[n])
		if cx == cy {
			b.AddTransitionLabel(s, between(b, x, y, n+1, initials, zeros && cx == '0'), cx)
		} else {
			b.AddTransitionLabel(s, atLeast(b, x, n+1, initials, zeros && cx == '0'), cx)
			b.AddTransitionLabel(s, atMost(b, y, n+1), cy)
			if cx+1 < cy {
				b.AddTransition(s, anyOfRightLength(b, x, n+1), cx+1, cy-1)
			}
		}
	}
	return s
}

// MakeString returns a new (deterministic) automaton that accepts the
// single given string.
func (*Automata) MakeString(s string) (*Automaton, error) {
	a := NewAutomaton()
	lastState := a.CreateState()
	for _, c := range s {
		state := a.CreateState()
		if err := a.AddTransitionLabel(lastState, state, int(c)); err != nil {
			return nil, err
		}
		lastState = state
	}
	a.SetAccept(lastState, true)
	a.FinishState()
	return a, nil
}
