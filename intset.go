package automaton

import "slices"

// Hashable is a key usable with HashMap. Implementations supply their
// own hash code and equality, independent of Go map semantics.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// IntSet is the read contract shared by the mutable StateSet and the
// immutable FrozenIntSet: the number of distinct members, the sorted
// duplicate-free member array, and an insertion-order-independent
// hash code. All three reflect the same membership snapshot.
type IntSet interface {
	Hashable

	// GetArray returns the members in ascending order with no
	// duplicates. The returned slice is owned by the set and must
	// not be modified by the caller.
	GetArray() []int

	// Size returns the number of distinct members.
	Size() int
}

// intSetEquals is the shared equality for IntSet implementations:
// element-wise comparison of the canonical arrays. Equal hashes alone
// are necessary but not sufficient.
func intSetEquals(a, b IntSet) bool {
	if a.Size() != b.Size() {
		return false
	}
	return slices.Equal(a.GetArray(), b.GetArray())
}
