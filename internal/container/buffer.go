// Package container implements the growable containers the engine builds
// everything else on top of: a typed, sorted buffer supporting binary
// search and sorted insert, and an xxhash-keyed auxiliary index that
// caches membership probes against a sorted buffer without ever
// overriding it as the authoritative source of order. The buffer grows via
// Go's append and is grounded directly on the array_s functions in the
// original summarizer's lib.c (array_new, array_sorted_alloc,
// array_search).
package container

// Comparator reports the ordering of a against b: negative if a belongs
// before b, zero if they are equal under this ordering, positive if a
// belongs after b.
type Comparator[T any] func(a, b T) int

// Buffer is a contiguous, growable slice of T held in insertion order,
// optionally queried and maintained via a Comparator.
type Buffer[T any] struct {
	items []T
}

// NewBuffer returns an empty buffer with capacity hint n.
func NewBuffer[T any](n int) *Buffer[T] {
	return &Buffer[T]{items: make([]T, 0, n)}
}

// Len returns the number of elements currently held.
func (b *Buffer[T]) Len() int { return len(b.items) }

// At returns the element at index i.
func (b *Buffer[T]) At(i int) T { return b.items[i] }

// Set overwrites the element at index i.
func (b *Buffer[T]) Set(i int, v T) { b.items[i] = v }

// Items exposes the backing slice. Callers must not retain it across a
// call that may grow the buffer (Append, SortedInsert).
func (b *Buffer[T]) Items() []T { return b.items }

// Append adds v to the end, growing capacity by Go's append policy when
// full (doubling for small buffers, smaller steps for large ones).
func (b *Buffer[T]) Append(v T) int {
	b.items = append(b.items, v)
	return len(b.items) - 1
}

// Search performs a binary search for key using cmp against a zero-value
// target built by the caller via probe(i). It returns the index of a
// match and true, or the insertion point and false if key is absent.
// probe(i) must return cmp(key, items[i]).
func (b *Buffer[T]) Search(probe func(i int) int) (int, bool) {
	lo, hi := 0, len(b.items)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		c := probe(mid)
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return lo, false
}

// SortedInsert inserts v at the position cmp dictates, maintaining sort
// order. When tieBeforeExisting is true, a new element comparing equal to
// an existing run is inserted before that run (the grader's "equal goes
// before existing" rule, producing last-seen-first order among ties);
// when false, equal elements are inserted after the existing run (stable
// insertion order, used for the article's stem table).
func (b *Buffer[T]) SortedInsert(v T, cmp Comparator[T], tieBeforeExisting bool) int {
	lo, hi := 0, len(b.items)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		c := cmp(v, b.items[mid])
		switch {
		case c == 0:
			if tieBeforeExisting {
				hi = mid - 1
			} else {
				lo = mid + 1
			}
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	b.items = append(b.items, v)
	copy(b.items[lo+1:], b.items[lo:len(b.items)-1])
	b.items[lo] = v
	return lo
}

// BinarySearchBy finds an element by cmp(v) comparisons (negative if the
// sought key is before items[i], zero on match, positive if after),
// returning its index and true, or the would-be insertion index and false.
func BinarySearchBy[T any](items []T, cmp func(T) int) (int, bool) {
	lo, hi := 0, len(items)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		c := cmp(items[mid])
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return lo, false
}
