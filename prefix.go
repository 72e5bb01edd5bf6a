package automaton

// NewPrefixAutomaton returns a deterministic automaton accepting all
// strings that start with the given prefix.
func NewPrefixAutomaton(prefix string) (*Automaton, error) {
	s, err := defaultAutomata.MakeString(prefix)
	if err != nil {
		return nil, err
	}
	any, err := defaultAutomata.MakeAnyString()
	if err != nil {
		return nil, err
	}
	a, err := Concatenate(s, any)
	if err != nil {
		return nil, err
	}
	return Determinize(a, DefaultDeterminizeWorkLimit)
}
