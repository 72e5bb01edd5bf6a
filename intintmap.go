package automaton

import "iter"

const (
	defaultExpectedElements = 4
	defaultLoadFactor       = 0.75
	minHashArrayLength      = 4
)

// IntIntMap is an open-addressing map from int keys to int values with
// linear probing and backward-shift deletion. Key 0 is the empty-slot
// marker in the keys array and gets dedicated storage instead.
//
// StateSet uses it as the overflow store for state ids at or above the
// direct-map threshold; its add-or-increment and remove-by-key
// operations are shaped for that use.
type IntIntMap struct {
	keys   []int
	values []int

	assigned int
	mask     int
	resizeAt int // Expand (rehash) keys when assigned hits this value.

	hasEmptyKey bool // Key 0 is held out of the slot array.
	emptyValue  int

	loadFactor float64
}

func NewIntIntMap() *IntIntMap {
	return NewIntIntMapSized(defaultExpectedElements)
}

func NewIntIntMapSized(expectedElements int) *IntIntMap {
	m := &IntIntMap{loadFactor: defaultLoadFactor}
	m.allocateBuffers(arraySizeFor(expectedElements, m.loadFactor))
	return m
}

func arraySizeFor(elements int, loadFactor float64) int {
	size := minHashArrayLength
	for float64(size)*loadFactor < float64(elements) {
		size <<= 1
	}
	return size
}

func (m *IntIntMap) allocateBuffers(arraySize int) {
	m.keys = make([]int, arraySize)
	m.values = make([]int, arraySize)
	m.mask = arraySize - 1
	m.resizeAt = int(float64(arraySize) * m.loadFactor)
}

// Get returns the value for key and whether it is present.
func (m *IntIntMap) Get(key int) (int, bool) {
	if key == 0 {
		if m.hasEmptyKey {
			return m.emptyValue, true
		}
		return 0, false
	}
	slot := m.slotOf(key)
	if m.keys[slot] == key {
		return m.values[slot], true
	}
	return 0, false
}

// AddTo adds incrementValue to the value stored for key, inserting the
// key with that value if absent, and returns the resulting value.
func (m *IntIntMap) AddTo(key, incrementValue int) int {
	if key == 0 {
		if m.hasEmptyKey {
			m.emptyValue += incrementValue
		} else {
			m.hasEmptyKey = true
			m.emptyValue = incrementValue
		}
		return m.emptyValue
	}

	slot := m.slotOf(key)
	if m.keys[slot] == key {
		m.values[slot] += incrementValue
		return m.values[slot]
	}

	if m.assigned == m.resizeAt {
		m.rehash(len(m.keys) << 1)
		slot = m.slotOf(key)
	}
	m.keys[slot] = key
	m.values[slot] = incrementValue
	m.assigned++
	return incrementValue
}

// Put stores value for key, replacing any previous value.
func (m *IntIntMap) Put(key, value int) {
	if key == 0 {
		m.hasEmptyKey = true
		m.emptyValue = value
		return
	}
	slot := m.slotOf(key)
	if m.keys[slot] == key {
		m.values[slot] = value
		return
	}
	if m.assigned == m.resizeAt {
		m.rehash(len(m.keys) << 1)
		slot = m.slotOf(key)
	}
	m.keys[slot] = key
	m.values[slot] = value
	m.assigned++
}

// Remove deletes key from the map, returning its previous value and
// whether it was present.
func (m *IntIntMap) Remove(key int) (int, bool) {
	if key == 0 {
		if !m.hasEmptyKey {
			return 0, false
		}
		m.hasEmptyKey = false
		return m.emptyValue, true
	}
	slot := m.slotOf(key)
	if m.keys[slot] != key {
		return 0, false
	}
	previous := m.values[slot]
	m.shiftConflictingKeys(slot)
	return previous, true
}

func (m *IntIntMap) Size() int {
	if m.hasEmptyKey {
		return m.assigned + 1
	}
	return m.assigned
}

// Keys iterates over all keys in unspecified order.
func (m *IntIntMap) Keys() iter.Seq[int] {
	return func(yield func(int) bool) {
		if m.hasEmptyKey && !yield(0) {
			return
		}
		for i, k := range m.keys {
			if k != 0 && !yield(m.keys[i]) {
				return
			}
		}
	}
}

// slotOf returns the slot holding key, or the empty slot where key
// would be inserted.
func (m *IntIntMap) slotOf(key int) int {
	slot := mixPhi(key) & m.mask
	for m.keys[slot] != 0 && m.keys[slot] != key {
		slot = (slot + 1) & m.mask
	}
	return slot
}

func (m *IntIntMap) rehash(newSize int) {
	oldKeys, oldValues := m.keys, m.values
	m.allocateBuffers(newSize)
	for i, k := range oldKeys {
		if k == 0 {
			continue
		}
		slot := m.slotOf(k)
		m.keys[slot] = k
		m.values[slot] = oldValues[i]
	}
}

// shiftConflictingKeys closes the gap left at gapSlot by moving back
// any entries that probed past it.
func (m *IntIntMap) shiftConflictingKeys(gapSlot int) {
	distance := 0
	for {
		distance++
		slot := (gapSlot + distance) & m.mask
		existing := m.keys[slot]
		if existing == 0 {
			break
		}

		idealSlot := mixPhi(existing) & m.mask
		shift := (slot - idealSlot) & m.mask
		if shift >= distance {
			// Entry was originally at or before the gap slot; move it
			// into the gap and continue with its position as the new gap.
			m.keys[gapSlot] = existing
			m.values[gapSlot] = m.values[slot]
			gapSlot = slot
			distance = 0
		}
	}

	m.keys[gapSlot] = 0
	m.values[gapSlot] = 0
	m.assigned--
}
