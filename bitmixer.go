package automaton

const (
	// Golden ratio bit mixers.
	PHI_C32 = uint32(0x9e3779b9)
	PHI_C64 = uint64(0x9e3779b97f4a7c15)
)

// mix scrambles a state id so that near-identical ids land far apart.
// Set hashes are built as commutative sums of mixed members, so the
// mixer carries all the avalanche behavior on its own.
func mix(key int) int {
	return mix32(key)
}

// MurmurHash3 32-bit finalization step.
func mix32(v int) int {
	k := uint32(v)
	k = (k ^ (k >> 16)) * 0x85ebca6b
	k = (k ^ (k >> 13)) * 0xc2b2ae35
	return int(k ^ (k >> 16))
}

// Phi-based mixer for hash table slot spreading, where the full murmur
// finalizer is overkill.
func mixPhi(k int) int {
	h := uint32(k) * PHI_C32
	return int(h ^ (h >> 16))
}
