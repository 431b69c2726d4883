package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAppendAndAt(t *testing.T) {
	b := NewBuffer[int](0)
	b.Append(1)
	b.Append(2)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, 1, b.At(0))
	assert.Equal(t, 2, b.At(1))
}

func TestSortedInsertAscendingStable(t *testing.T) {
	b := NewBuffer[string](0)
	cmp := func(a, c string) int {
		switch {
		case a < c:
			return -1
		case a > c:
			return 1
		default:
			return 0
		}
	}
	for _, s := range []string{"banana", "apple", "cherry", "apple"} {
		b.SortedInsert(s, cmp, false)
	}
	assert.Equal(t, []string{"apple", "apple", "banana", "cherry"}, b.Items())
}

func TestSortedInsertTieBeforeExisting(t *testing.T) {
	type scored struct {
		id    int
		score int
	}
	b := NewBuffer[scored](0)
	// Descending by score; ties: newer insertion goes before existing.
	cmp := func(a, c scored) int { return c.score - a.score }
	b.SortedInsert(scored{id: 1, score: 5}, cmp, true)
	b.SortedInsert(scored{id: 2, score: 5}, cmp, true)
	b.SortedInsert(scored{id: 3, score: 5}, cmp, true)

	ids := make([]int, 0, 3)
	for _, s := range b.Items() {
		ids = append(ids, s.id)
	}
	assert.Equal(t, []int{3, 2, 1}, ids)
}

func TestSearchFound(t *testing.T) {
	b := NewBuffer[int](0)
	for _, v := range []int{1, 3, 5, 7, 9} {
		b.Append(v)
	}
	idx, ok := b.Search(func(i int) int { return 5 - b.At(i) })
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = b.Search(func(i int) int { return 4 - b.At(i) })
	assert.False(t, ok)
}

func TestHashIndexRecordAndCandidates(t *testing.T) {
	h := NewHashIndex(0)
	h.Record("cat", 2)
	h.Record("dog", 5)

	assert.Equal(t, []int{2}, h.Candidates("cat"))
	assert.Equal(t, []int{5}, h.Candidates("dog"))
	assert.Empty(t, h.Candidates("bird"))
}
