package automaton

import (
	"fmt"
	"strings"
)

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet is an immutable snapshot of a StateSet: the canonical
// member array, its hash code and the DFA state assigned to that
// member combination. Determinize keys its seen-states dictionary with
// these so that two subset-construction targets with equal membership
// collapse into one DFA state.
type FrozenIntSet struct {
	values   []int
	hashCode uint64
	state    int
}

func NewFrozenIntSet(values []int, hashCode uint64, state int) *FrozenIntSet {
	return &FrozenIntSet{values: values, hashCode: hashCode, state: state}
}

// State returns the DFA state this snapshot was bound to at freeze time.
func (f *FrozenIntSet) State() int {
	return f.state
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

// Equals compares canonical arrays element-wise. Matching hash codes
// are not enough on their own; dictionary probes confirm membership.
func (f *FrozenIntSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok {
		return false
	}
	return intSetEquals(f, is)
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}

func (f *FrozenIntSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range f.values {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(']')
	return b.String()
}
