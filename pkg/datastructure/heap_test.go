package datastructure

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func indexLess(a, b Index) bool { return a < b }

func TestMinHeapDecreaseKey(t *testing.T) {
	for _, d := range []int{2, 4, 8} {
		h := NewdAryHeapWithTieBreak[Index](d, indexLess)
		nodes := make([]*PriorityQueueNode[Index], 10)
		for i := range nodes {
			nodes[i] = NewPriorityQueueNode(float64(100+i), Index(i))
			h.Insert(nodes[i])
		}

		require.NoError(t, h.DecreaseKey(nodes[7], 1))
		require.NoError(t, h.DecreaseKey(nodes[3], 1))
		assert.Error(t, h.DecreaseKey(nodes[5], 500))

		got := []Index{}
		for !h.IsEmpty() {
			n, err := h.ExtractMin()
			require.NoError(t, err)
			assert.False(t, n.InHeap())
			got = append(got, n.GetItem())
		}
		// rank tie between 3 & 7 is broken by node id
		assert.Equal(t, []Index{3, 7, 0, 1, 2, 4, 5, 6, 8, 9}, got)

		assert.Error(t, h.DecreaseKey(nodes[0], 0))
		_, err := h.ExtractMin()
		assert.ErrorIs(t, err, ErrEmptyHeap)
	}
}

func TestMinHeapRandom(t *testing.T) {
	rd := rand.New(rand.NewSource(42))
	h := NewFourAryHeap[int]()
	ranks := make([]float64, 500)
	nodes := make([]*PriorityQueueNode[int], 500)
	for i := range ranks {
		ranks[i] = rd.Float64() * 1000
		nodes[i] = NewPriorityQueueNode(ranks[i], i)
		h.Insert(nodes[i])
	}
	for i := 0; i < 200; i++ {
		k := rd.Intn(500)
		ranks[k] = ranks[k] * rd.Float64()
		require.NoError(t, h.DecreaseKey(nodes[k], ranks[k]))
	}

	sort.Float64s(ranks)
	for i := range ranks {
		n, err := h.ExtractMin()
		require.NoError(t, err)
		assert.Equal(t, ranks[i], n.GetRank())
	}
	assert.Equal(t, 0, h.Size())
}

func TestBinaryHeapGetMinAndReset(t *testing.T) {
	h := NewBinaryHeap[Index]()
	_, err := h.GetMin()
	assert.ErrorIs(t, err, ErrEmptyHeap)

	n := NewPriorityQueueNode(4, Index(1))
	h.Insert(n)
	h.Insert(NewPriorityQueueNode(2, Index(2)))
	top, err := h.GetMin()
	require.NoError(t, err)
	assert.Equal(t, Index(2), top.GetItem())
	assert.Equal(t, 2, h.Size())

	for !h.IsEmpty() {
		_, err := h.ExtractMin()
		require.NoError(t, err)
	}

	// a node extracted from one search is reused by the next
	n.Reset(1, 9)
	assert.False(t, n.InHeap())
	h.Insert(n)
	top, err = h.GetMin()
	require.NoError(t, err)
	assert.Equal(t, Index(9), top.GetItem())
	assert.Equal(t, 1.0, top.GetRank())
}

func TestLazyMinHeap(t *testing.T) {
	h := NewLazyMinHeap[Index](indexLess)
	best := map[Index]float64{}
	push := func(u Index, rank float64) {
		best[u] = rank
		h.Push(rank, u)
	}

	push(1, 10)
	push(2, 5)
	push(3, 7)
	push(1, 3) // improves node 1, the rank 10 entry becomes stale
	push(4, 7)

	bestOf := func(u Index) float64 { return best[u] }
	want := []struct {
		u    Index
		rank float64
	}{{1, 3}, {2, 5}, {3, 7}, {4, 7}}
	for _, w := range want {
		u, rank, ok := h.PopFresh(bestOf)
		require.True(t, ok)
		assert.Equal(t, w.u, u)
		assert.Equal(t, w.rank, rank)
	}

	_, _, ok := h.PopFresh(bestOf)
	assert.False(t, ok)
	assert.Equal(t, 1, h.StaleSkipped())

	h.Clear()
	assert.True(t, h.IsEmpty())
	assert.Equal(t, 0, h.StaleSkipped())
}

func TestLazyMinHeapRandom(t *testing.T) {
	rd := rand.New(rand.NewSource(7))
	h := NewLazyMinHeap[int](nil)
	ranks := make([]float64, 300)
	for i := range ranks {
		ranks[i] = rd.Float64()
		h.Push(ranks[i], i)
	}
	sort.Float64s(ranks)
	for i := range ranks {
		_, rank, ok := h.Pop()
		require.True(t, ok)
		assert.Equal(t, ranks[i], rank)
	}
}
