package automaton

import "iter"

// HashMap is a chained hash table keyed by Hashable values. It is the
// hash-consing dictionary of determinize: probed with the working
// StateSet and populated with FrozenIntSet keys, so lookups never
// allocate a key. Single-owner like the rest of the subsystem; no
// internal locking.
type HashMap[T any] struct {
	buckets    []*entry[T]
	size       int
	mask       uint64
	emptyValue T
	loadFactor float64
}

type entry[T any] struct {
	key   Hashable
	value T
	next  *entry[T]
}

type optionsHashMap struct {
	capacity   int
	loadFactor float64
}

type OptionsHashMap func(*optionsHashMap)

func WithCapacity(capacity int) OptionsHashMap {
	return func(o *optionsHashMap) {
		o.capacity = capacity
	}
}

func WithLoadFactor(loadFactor float64) OptionsHashMap {
	return func(o *optionsHashMap) {
		o.loadFactor = loadFactor
	}
}

// NewHashMap creates a hash map; the capacity option is rounded up to
// a power of two.
func NewHashMap[T any](options ...OptionsHashMap) *HashMap[T] {
	opt := &optionsHashMap{
		capacity:   1,
		loadFactor: 0.75,
	}
	for _, fn := range options {
		fn(opt)
	}

	realCap := 1
	for realCap < opt.capacity {
		realCap <<= 1
	}

	return &HashMap[T]{
		buckets:    make([]*entry[T], realCap),
		mask:       uint64(realCap - 1),
		loadFactor: opt.loadFactor,
	}
}

// Set inserts or replaces the value for key.
func (m *HashMap[T]) Set(key Hashable, value T) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	m.buckets[index] = &entry[T]{
		key:   key,
		value: value,
		next:  m.buckets[index],
	}
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > m.loadFactor {
		m.resize()
	}
}

// Get looks up key; the probe key only needs equal hash and members,
// not the same concrete type as the stored key.
func (m *HashMap[T]) Get(key Hashable) (T, bool) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	return m.emptyValue, false
}

// Delete removes key if present.
func (m *HashMap[T]) Delete(key Hashable) {
	index := key.Hash() & m.mask

	var prev *entry[T]
	for e := m.buckets[index]; e != nil; prev, e = e, e.next {
		if e.key.Equals(key) {
			if prev == nil {
				m.buckets[index] = e.next
			} else {
				prev.next = e.next
			}
			m.size--
			return
		}
	}
}

func (m *HashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*entry[T], newCap)
	newMask := uint64(newCap - 1)

	for _, head := range m.buckets {
		for e := head; e != nil; {
			next := e.next
			newIndex := e.key.Hash() & newMask
			e.next = newBuckets[newIndex]
			newBuckets[newIndex] = e
			e = next
		}
	}

	m.buckets = newBuckets
	m.mask = newMask
}

func (m *HashMap[T]) Size() int {
	return m.size
}

func (m *HashMap[T]) Iterator() iter.Seq2[Hashable, T] {
	return func(yield func(Hashable, T) bool) {
		for _, bucket := range m.buckets {
			for e := bucket; e != nil; e = e.next {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}
