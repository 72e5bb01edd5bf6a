package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSetMembership(t *testing.T) {
	s := NewStateSet()
	assert.Equal(t, 0, s.Size())
	assert.Empty(t, s.GetArray())

	// Ids on both sides of the direct-store threshold:
	s.Incr(5)
	s.Incr(130)
	s.Incr(0)
	s.Incr(1000)
	assert.Equal(t, 4, s.Size())
	assert.Equal(t, []int{0, 5, 130, 1000}, s.GetArray())

	s.Decr(130)
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, []int{0, 5, 1000}, s.GetArray())
}

func TestStateSetMultiplicity(t *testing.T) {
	s := NewStateSet()

	// Two edges contribute the same state; dropping one must not drop
	// the membership.
	s.Incr(7)
	s.Incr(7)
	assert.Equal(t, 1, s.Size())

	s.Decr(7)
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, []int{7}, s.GetArray())

	s.Decr(7)
	assert.Equal(t, 0, s.Size())
	assert.Empty(t, s.GetArray())

	// Same over the overflow store:
	s.Incr(500)
	s.Incr(500)
	s.Decr(500)
	assert.Equal(t, 1, s.Size())
	s.Decr(500)
	assert.Equal(t, 0, s.Size())
}

func TestStateSetHashOrderIndependent(t *testing.T) {
	a := NewStateSet()
	b := NewStateSet()

	for _, id := range []int{5, 130, 2, 999} {
		a.Incr(id)
	}
	for _, id := range []int{999, 2, 130, 5} {
		b.Incr(id)
	}

	a.ComputeHash()
	b.ComputeHash()
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equals(b))
}

func TestStateSetHashIgnoresMultiplicity(t *testing.T) {
	a := NewStateSet()
	b := NewStateSet()

	a.Incr(3)
	a.Incr(3)
	a.Incr(200)

	b.Incr(3)
	b.Incr(200)
	b.Incr(200)
	b.Incr(200)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equals(b))
}

func TestStateSetHashTracksMutations(t *testing.T) {
	s := NewStateSet()
	s.Incr(1)
	s.Incr(2)
	s.ComputeHash()
	h1 := s.Hash()

	s.Incr(3)
	s.ComputeHash()
	h2 := s.Hash()
	assert.NotEqual(t, h1, h2)

	s.Decr(3)
	s.ComputeHash()
	assert.Equal(t, h1, s.Hash())
}

func TestStateSetDecrAbsentPanics(t *testing.T) {
	assert.Panics(t, func() {
		s := NewStateSet()
		s.Decr(3)
	})

	assert.Panics(t, func() {
		s := NewStateSet()
		s.Incr(3)
		s.Decr(3)
		s.Decr(3)
	})

	// Overflow-store id:
	assert.Panics(t, func() {
		s := NewStateSet()
		s.Decr(400)
	})
}

func TestStateSetFreezeRequiresComputeHash(t *testing.T) {
	s := NewStateSet()
	s.Incr(1)

	assert.Panics(t, func() {
		s.Freeze(0)
	})

	s.ComputeHash()
	assert.NotPanics(t, func() {
		s.Freeze(0)
	})

	// Any mutation makes the hash stale again:
	s.Incr(2)
	assert.Panics(t, func() {
		s.Freeze(1)
	})
}

func TestStateSetFreezeSnapshotIsolation(t *testing.T) {
	s := NewStateSet()
	s.Incr(4)
	s.Incr(250)
	s.ComputeHash()

	frozen := s.Freeze(7)
	assert.Equal(t, []int{4, 250}, frozen.GetArray())
	assert.Equal(t, 7, frozen.State())
	assert.Equal(t, s.Hash(), frozen.Hash())

	// Keep mutating the working set; the snapshot must not move.
	s.Decr(4)
	s.Incr(9)
	s.Incr(600)
	s.ComputeHash()
	_ = s.GetArray()

	assert.Equal(t, []int{4, 250}, frozen.GetArray())
	assert.NotEqual(t, frozen.Hash(), s.Hash())
}

func TestStateSetEqualsFrozen(t *testing.T) {
	s := NewStateSet()
	s.Incr(1)
	s.Incr(300)
	s.ComputeHash()

	frozen := s.Freeze(0)
	assert.True(t, s.Equals(frozen))
	assert.True(t, frozen.Equals(s))

	s.Incr(2)
	assert.False(t, s.Equals(frozen))
	assert.False(t, frozen.Equals(s))
}

func TestStateSetGetArrayCached(t *testing.T) {
	s := NewStateSet()
	s.Incr(10)
	s.Incr(20)

	first := s.GetArray()
	second := s.GetArray()
	assert.Equal(t, first, second)

	// A mutation forces a rebuild into fresh storage, so a snapshot of
	// the old array stays intact.
	old := first
	s.Incr(15)
	rebuilt := s.GetArray()
	assert.Equal(t, []int{10, 15, 20}, rebuilt)
	assert.Equal(t, []int{10, 20}, old)
}
