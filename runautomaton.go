package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// RunAutomaton is a finite-state automaton compiled for fast string
// acceptance. The alphabet is partitioned into character classes at the
// automaton's interval start points, and the deterministic transition
// function is flattened into one dense table indexed by
// state*numClasses + class.
type RunAutomaton struct {
	automaton *Automaton
	points    []int
	size      int
	accept    *bitset.BitSet

	// Delta(state, class) = transitions[state*len(points)+class], or -1
	// if there is no matching transition.
	transitions []int

	// Maps the first 256 labels directly to their character class; any
	// larger label falls back to a binary search of points.
	classmap []int
}

// NewRunAutomaton constructs a RunAutomaton from the given automaton,
// determinizing it first if necessary. alphabetSize bounds the label
// space (use unicode.MaxRune+1 for codepoint automata). workLimit caps
// the determinization effort; see Determinize.
func NewRunAutomaton(a *Automaton, alphabetSize, workLimit int) (*RunAutomaton, error) {
	a, err := Determinize(a, workLimit)
	if err != nil {
		return nil, err
	}

	points := a.GetStartPoints()
	size := max(1, a.GetNumStates())

	r := &RunAutomaton{
		automaton:   a,
		points:      points,
		size:        size,
		accept:      bitset.New(uint(size)),
		transitions: make([]int, size*len(points)),
		classmap:    make([]int, min(256, alphabetSize)),
	}

	for i := range r.transitions {
		r.transitions[i] = -1
	}

	t := NewTransition()
	for n := 0; n < a.GetNumStates(); n++ {
		if a.IsAccept(n) {
			r.accept.Set(uint(n))
		}
		t.Source = n
		t.TransitionUpto = -1
		for c := 0; c < len(points); c++ {
			r.transitions[n*len(points)+c] = a.Next(t, points[c])
		}
	}

	i := 0
	for j := 0; j < len(r.classmap); j++ {
		if i+1 < len(points) && j == points[i+1] {
			i++
		}
		r.classmap[j] = i
	}

	return r, nil
}

// Gets character class of the given codepoint.
func (r *RunAutomaton) getCharClass(c int) int {
	if c < len(r.classmap) {
		return r.classmap[c]
	}

	// Binary search for the greatest point <= c:
	low, high := 0, len(r.points)-1
	for low <= high {
		mid := (low + high) >> 1
		if r.points[mid] > c {
			high = mid - 1
		} else if mid+1 < len(r.points) && r.points[mid+1] <= c {
			low = mid + 1
		} else {
			return mid
		}
	}
	return len(r.points) - 1
}

// IsAccept returns true if the given state is an accept state.
func (r *RunAutomaton) IsAccept(state int) bool {
	return r.accept.Test(uint(state))
}

// Size returns the number of states in the automaton.
func (r *RunAutomaton) Size() int {
	return r.size
}

// Step returns the state obtained by reading the given char from the
// given state. Returns -1 if there is no matching transition.
func (r *RunAutomaton) Step(state, c int) int {
	if c >= len(r.classmap) {
		return r.transitions[state*len(r.points)+r.getCharClass(c)]
	}
	return r.transitions[state*len(r.points)+r.classmap[c]]
}

// CharacterRunAutomaton matches strings of Unicode codepoints against
// an automaton.
type CharacterRunAutomaton struct {
	*RunAutomaton
}

// NewCharacterRunAutomaton constructs a codepoint matcher from the
// given automaton, determinizing it if necessary with the given work
// limit.
func NewCharacterRunAutomaton(a *Automaton, workLimit int) (*CharacterRunAutomaton, error) {
	run, err := NewRunAutomaton(a, maxCodePoint+1, workLimit)
	if err != nil {
		return nil, err
	}
	return &CharacterRunAutomaton{RunAutomaton: run}, nil
}

// Run returns true if the given string is accepted by this automaton.
func (r *CharacterRunAutomaton) Run(s string) bool {
	p := 0
	for _, c := range s {
		p = r.Step(p, int(c))
		if p == -1 {
			return false
		}
	}
	return r.accept.Test(uint(p))
}

// ByteRunAutomaton matches byte sequences against an automaton whose
// transition labels are byte values (0-255).
type ByteRunAutomaton struct {
	*RunAutomaton
}

// NewByteRunAutomaton constructs a byte matcher from the given
// binary-alphabet automaton, determinizing it if necessary with the
// given work limit.
func NewByteRunAutomaton(a *Automaton, workLimit int) (*ByteRunAutomaton, error) {
	run, err := NewRunAutomaton(a, 256, workLimit)
	if err != nil {
		return nil, err
	}
	return &ByteRunAutomaton{RunAutomaton: run}, nil
}

// Run returns true if the given byte slice is accepted by this automaton.
func (r *ByteRunAutomaton) Run(s []byte) bool {
	p := 0
	for i := 0; i < len(s); i++ {
		p = r.Step(p, int(s[i]))
		if p == -1 {
			return false
		}
	}
	return r.accept.Test(uint(p))
}

// Run returns true if the given string is accepted by the automaton.
// The automaton must be deterministic; use CharacterRunAutomaton for
// repeated matching against the same automaton.
func Run(a *Automaton, s string) bool {
	if a.GetNumStates() == 0 {
		return false
	}
	state := 0
	for _, c := range s {
		state = a.Step(state, int(c))
		if state == -1 {
			return false
		}
	}
	return a.IsAccept(state)
}
