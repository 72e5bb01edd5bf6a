package automaton

import "errors"

// MaxEditDistance bounds the supported Levenshtein distance. Larger
// distances blow up the determinized state count.
const MaxEditDistance = 2

var ErrEditDistanceTooLarge = errors.New("edit distance exceeds maximum of 2")

// NewLevenshteinAutomaton returns a deterministic automaton accepting
// all strings within the given Levenshtein (edit) distance of term.
// Insertions, deletions and substitutions each cost one edit.
//
// The NFA states are (position, editsUsed) pairs over the term's
// codepoints; subset construction then collapses them into a DFA.
func NewLevenshteinAutomaton(term string, maxEdits int) (*Automaton, error) {
	if maxEdits < 0 || maxEdits > MaxEditDistance {
		return nil, ErrEditDistanceTooLarge
	}
	if maxEdits == 0 {
		return defaultAutomata.MakeString(term)
	}

	runes := []rune(term)
	n := len(runes)
	width := maxEdits + 1

	// state(i, e) = i*width + e
	b := NewBuilderSized(width*(n+1), width*(n+1)*3)
	for i := 0; i <= n; i++ {
		for e := 0; e <= maxEdits; e++ {
			s := b.CreateState()
			// Accept if the rest of the term fits in the remaining budget:
			if n-i <= maxEdits-e {
				b.SetAccept(s, true)
			}
		}
	}

	for i := 0; i <= n; i++ {
		for e := 0; e <= maxEdits; e++ {
			s := i*width + e
			if i < n {
				// Exact match:
				b.AddTransitionLabel(s, (i+1)*width+e, int(runes[i]))
			}
			if e < maxEdits {
				// Insertion (extra input character):
				b.AddTransition(s, i*width+e+1, 0, maxCodePoint)
				if i < n {
					// Substitution:
					b.AddTransition(s, (i+1)*width+e+1, 0, maxCodePoint)
				}
			}
		}
	}

	// Deletions are epsilon moves from (i, e) to (i+1, e+1). Walk the
	// positions backwards so chained deletions are already resolved
	// when the earlier state copies them.
	for i := n - 1; i >= 0; i-- {
		for e := maxEdits - 1; e >= 0; e-- {
			b.AddEpsilon(i*width+e, (i+1)*width+e+1)
		}
	}

	return Determinize(b.Finish(), DefaultDeterminizeWorkLimit)
}
