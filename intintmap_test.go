package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntIntMapBasic(t *testing.T) {
	m := NewIntIntMap()

	_, ok := m.Get(7)
	assert.False(t, ok)

	m.Put(7, 1)
	v, ok := m.Get(7)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, m.Size())

	m.Put(7, 9)
	v, _ = m.Get(7)
	assert.Equal(t, 9, v)
	assert.Equal(t, 1, m.Size())

	prev, ok := m.Remove(7)
	assert.True(t, ok)
	assert.Equal(t, 9, prev)
	assert.Equal(t, 0, m.Size())

	_, ok = m.Remove(7)
	assert.False(t, ok)
}

func TestIntIntMapZeroKey(t *testing.T) {
	// Key 0 is the empty-slot marker internally and gets dedicated
	// storage; it must behave like any other key.
	m := NewIntIntMap()

	_, ok := m.Get(0)
	assert.False(t, ok)

	assert.Equal(t, 3, m.AddTo(0, 3))
	v, ok := m.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, m.Size())

	assert.Equal(t, 5, m.AddTo(0, 2))

	prev, ok := m.Remove(0)
	assert.True(t, ok)
	assert.Equal(t, 5, prev)
	assert.Equal(t, 0, m.Size())
}

func TestIntIntMapAddTo(t *testing.T) {
	m := NewIntIntMap()

	assert.Equal(t, 1, m.AddTo(200, 1))
	assert.Equal(t, 2, m.AddTo(200, 1))
	assert.Equal(t, 1, m.AddTo(300, 1))
	assert.Equal(t, 2, m.Size())

	v, ok := m.Get(200)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestIntIntMapGrowth(t *testing.T) {
	m := NewIntIntMapSized(4)

	for i := 1; i <= 200; i++ {
		m.Put(i, i*10)
	}
	assert.Equal(t, 200, m.Size())

	for i := 1; i <= 200; i++ {
		v, ok := m.Get(i)
		assert.True(t, ok)
		assert.Equal(t, i*10, v)
	}
}

func TestIntIntMapRemoveShift(t *testing.T) {
	// Deletion must close probe chains so colliding keys stay reachable.
	m := NewIntIntMapSized(4)
	keys := []int{129, 257, 513, 1025, 2049, 4097}
	for _, k := range keys {
		m.Put(k, k)
	}

	m.Remove(keys[0])
	m.Remove(keys[2])

	_, ok := m.Get(keys[0])
	assert.False(t, ok)
	_, ok = m.Get(keys[2])
	assert.False(t, ok)

	for _, k := range []int{keys[1], keys[3], keys[4], keys[5]} {
		v, ok := m.Get(k)
		assert.True(t, ok, "key %d lost after deletion", k)
		assert.Equal(t, k, v)
	}
	assert.Equal(t, 4, m.Size())
}

func TestIntIntMapKeys(t *testing.T) {
	m := NewIntIntMap()
	want := map[int]struct{}{0: {}, 5: {}, 130: {}, 999: {}}
	for k := range want {
		m.Put(k, 1)
	}

	got := make(map[int]struct{})
	for k := range m.Keys() {
		got[k] = struct{}{}
	}
	assert.Equal(t, want, got)
}
