package datastructure

type lazyEntry[T any] struct {
	rank float64
	item T
}

// LazyMinHeap. binary min-heap without decrease-key. an improved rank is pushed as a new entry,
// outdated entries stay in the heap and are dropped by PopFresh.
type LazyMinHeap[T any] struct {
	heap    []lazyEntry[T]
	tieLess func(a, b T) bool
	stale   int
}

func NewLazyMinHeap[T any](tieLess func(a, b T) bool) *LazyMinHeap[T] {
	return &LazyMinHeap[T]{
		heap:    make([]lazyEntry[T], 0),
		tieLess: tieLess,
	}
}

func (h *LazyMinHeap[T]) Preallocate(n int) {
	h.heap = make([]lazyEntry[T], 0, n)
}

func (h *LazyMinHeap[T]) less(i, j int) bool {
	a, b := &h.heap[i], &h.heap[j]
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return h.tieLess != nil && h.tieLess(a.item, b.item)
}

func (h *LazyMinHeap[T]) Push(rank float64, item T) {
	h.heap = append(h.heap, lazyEntry[T]{rank: rank, item: item})
	i := len(h.heap) - 1
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(i, p) {
			break
		}
		h.heap[i], h.heap[p] = h.heap[p], h.heap[i]
		i = p
	}
}

// Pop. remove & return the entry with the smallest rank
func (h *LazyMinHeap[T]) Pop() (T, float64, bool) {
	if len(h.heap) == 0 {
		var zero T
		return zero, 0, false
	}
	top := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]

	i := 0
	for {
		l := 2*i + 1
		if l >= len(h.heap) {
			break
		}
		smallest := l
		if r := l + 1; r < len(h.heap) && h.less(r, l) {
			smallest = r
		}
		if !h.less(smallest, i) {
			break
		}
		h.heap[i], h.heap[smallest] = h.heap[smallest], h.heap[i]
		i = smallest
	}
	return top.item, top.rank, true
}

// PopFresh. pop until an entry whose rank is not worse than best(item) comes out.
// best is the side table of current best ranks.
func (h *LazyMinHeap[T]) PopFresh(best func(item T) float64) (T, float64, bool) {
	for {
		item, rank, ok := h.Pop()
		if !ok {
			return item, rank, false
		}
		if rank > best(item) {
			h.stale++
			continue
		}
		return item, rank, true
	}
}

func (h *LazyMinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *LazyMinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

// StaleSkipped. number of outdated entries dropped since the last Clear
func (h *LazyMinHeap[T]) StaleSkipped() int {
	return h.stale
}

func (h *LazyMinHeap[T]) Clear() {
	h.heap = h.heap[:0]
	h.stale = 0
}
