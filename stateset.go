package automaton

import (
	"fmt"
	"slices"
)

// directLimit is the state-id threshold below which multiplicities are
// kept in a fixed counting array instead of the overflow hash map. It
// is tuned to the state-id density of typical small automata, not to
// the id space: the NFA builder allocates ids densely from zero, so
// nearly all sets seen during determinization fit entirely under it.
const directLimit = 128

var _ IntSet = &StateSet{}

// StateSet is a multiset of NFA state ids, reused by determinize to
// assemble the subset of states reachable under one transition label.
// Each id carries a multiplicity counting how many still-active edges
// contribute it; membership is the ids with multiplicity above zero.
//
// The canonical sorted array and the hash code are cached and only
// recomputed after a mutation, since Incr/Decr sit on the hot path of
// subset construction. A StateSet is single-owner: no synchronization
// is provided, exactly one determinization pass may use an instance.
type StateSet struct {
	direct     [directLimit]int
	directSize int
	inner      *IntIntMap

	hashCode    uint64
	hashUpdated bool

	arrayCache   []int
	arrayUpdated bool
}

func NewStateSet() *StateSet {
	return &StateSet{
		inner:        NewIntIntMap(),
		hashUpdated:  true,
		arrayUpdated: true,
		arrayCache:   []int{},
	}
}

// Incr raises the multiplicity of state by one, adding it to the set
// on the 0->1 transition.
func (s *StateSet) Incr(state int) {
	if state < directLimit {
		s.direct[state]++
		if s.direct[state] == 1 {
			s.keyChanged()
			s.directSize++
		}
	} else if s.inner.AddTo(state, 1) == 1 {
		s.keyChanged()
	}
}

// Decr lowers the multiplicity of state by one, dropping it from the
// set when the count reaches zero. Decrementing a state that is not
// present is a contract violation and panics: silently corrupting the
// set here would yield an automaton with the wrong language, which is
// strictly worse than crashing during construction.
func (s *StateSet) Decr(state int) {
	if state < directLimit {
		if s.direct[state] == 0 {
			panic(fmt.Sprintf("automaton: Decr(%d) on state with zero count", state))
		}
		s.direct[state]--
		if s.direct[state] == 0 {
			s.keyChanged()
			s.directSize--
		}
		return
	}

	count, ok := s.inner.Get(state)
	if !ok {
		panic(fmt.Sprintf("automaton: Decr(%d) on state with zero count", state))
	}
	if count == 1 {
		s.inner.Remove(state)
		s.keyChanged()
	} else {
		s.inner.Put(state, count-1)
	}
}

func (s *StateSet) keyChanged() {
	s.hashUpdated = false
	s.arrayUpdated = false
}

// ComputeHash refreshes the cached hash code if the set changed since
// the last computation. Mutations deliberately do not keep the hash up
// to date; callers must invoke this before relying on Hash or Freeze.
func (s *StateSet) ComputeHash() {
	if s.hashUpdated {
		return
	}
	// The sum is commutative, so iteration order does not matter.
	hashCode := uint64(s.Size())
	count := 0
	for key := 0; count < s.directSize; key++ {
		if s.direct[key] > 0 {
			hashCode += uint64(mix(key))
			count++
		}
	}
	for key := range s.inner.Keys() {
		hashCode += uint64(mix(key))
	}
	s.hashCode = hashCode
	s.hashUpdated = true
}

func (s *StateSet) Hash() uint64 {
	s.ComputeHash()
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok {
		return false
	}
	return intSetEquals(s, is)
}

// GetArray returns the members in ascending order with no duplicates.
// The slice is rebuilt only if the set changed since the last call; it
// may be the same backing storage on a later unchanged call and may be
// referenced by a previously frozen snapshot, so the caller must treat
// it as read-only.
func (s *StateSet) GetArray() []int {
	if s.arrayUpdated {
		return s.arrayCache
	}

	// A fresh slice every rebuild: Freeze hands out references to the
	// cache, so the old array must never be overwritten in place.
	arr := make([]int, 0, s.Size())
	count := 0
	for key := 0; count < s.directSize; key++ {
		if s.direct[key] > 0 {
			arr = append(arr, key)
			count++
		}
	}
	// The direct-store prefix is already ascending; only the overflow
	// suffix needs sorting.
	for key := range s.inner.Keys() {
		arr = append(arr, key)
	}
	slices.Sort(arr[s.directSize:])

	s.arrayCache = arr
	s.arrayUpdated = true
	return s.arrayCache
}

// Size returns the number of states with positive multiplicity.
func (s *StateSet) Size() int {
	return s.directSize + s.inner.Size()
}

// Freeze captures an immutable snapshot of the current membership,
// bound to the given DFA state. The snapshot stays valid as the
// working set keeps mutating.
//
// ComputeHash must have been called since the last mutation; freezing
// with a stale hash is a contract violation and panics.
func (s *StateSet) Freeze(state int) *FrozenIntSet {
	if !s.hashUpdated {
		panic("automaton: Freeze without ComputeHash after mutation")
	}
	return NewFrozenIntSet(s.GetArray(), s.hashCode, state)
}
