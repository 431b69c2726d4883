package container

import "github.com/cespare/xxhash/v2"

// HashIndex is an auxiliary membership cache alongside a sorted Buffer: an
// xxhash-keyed map from a caller-chosen string key to candidate indices,
// giving an O(1) average probe for "have I seen this stem before" before
// falling back to the buffer's binary search. It never decides order or
// selection outcomes by itself — Record/Candidates only narrow candidates that
// the caller must still confirm (and, on a miss, the caller's binary
// search remains the single source of truth for where a new element
// belongs).
type HashIndex struct {
	buckets map[uint64][]int
}

// NewHashIndex returns an empty index with capacity hint n.
func NewHashIndex(n int) *HashIndex {
	return &HashIndex{buckets: make(map[uint64][]int, n)}
}

// Record associates key with the buffer index idx.
func (h *HashIndex) Record(key string, idx int) {
	sum := xxhash.Sum64String(key)
	h.buckets[sum] = append(h.buckets[sum], idx)
}

// Candidates returns the indices previously recorded under key, a
// non-authoritative hint the caller must still verify against the buffer.
func (h *HashIndex) Candidates(key string) []int {
	return h.buckets[xxhash.Sum64String(key)]
}
