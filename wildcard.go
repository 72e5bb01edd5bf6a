package automaton

import "errors"

// Wildcard pattern syntax.
const (
	// WildcardString matches any sequence of characters, including none.
	WildcardString = '*'

	// WildcardChar matches exactly one character.
	WildcardChar = '?'

	// WildcardEscape escapes the character that follows it.
	WildcardEscape = '\\'
)

// MaxWildcardPatternLength bounds the accepted pattern length; longer
// patterns produce automata too large to be useful.
const MaxWildcardPatternLength = 256

var (
	ErrWildcardPatternTooLong = errors.New("wildcard pattern exceeds maximum length")
	ErrTrailingEscape         = errors.New("wildcard pattern ends with a trailing escape character")
)

// NewWildcardAutomaton converts a wildcard pattern into a deterministic
// automaton. '*' matches any sequence of characters, '?' matches any
// single character and '\' escapes the character that follows it.
func NewWildcardAutomaton(pattern string) (*Automaton, error) {
	runes := []rune(pattern)
	if len(runes) > MaxWildcardPatternLength {
		return nil, ErrWildcardPatternTooLong
	}

	automata := make([]*Automaton, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		var (
			a   *Automaton
			err error
		)
		switch runes[i] {
		case WildcardString:
			a, err = defaultAutomata.MakeAnyString()
		case WildcardChar:
			a, err = defaultAutomata.MakeAnyChar()
		case WildcardEscape:
			if i+1 >= len(runes) {
				return nil, ErrTrailingEscape
			}
			i++
			a, err = defaultAutomata.MakeChar(runes[i])
		default:
			a, err = defaultAutomata.MakeChar(runes[i])
		}
		if err != nil {
			return nil, err
		}
		automata = append(automata, a)
	}

	if len(automata) == 0 {
		return defaultAutomata.MakeEmptyString(), nil
	}

	a, err := Concatenate(automata...)
	if err != nil {
		return nil, err
	}
	return Minimize(a, DefaultDeterminizeWorkLimit)
}
