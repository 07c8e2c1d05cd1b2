package datastructure

import (
	"errors"

	"github.com/lintang-b-s/simpleroute/pkg"
)

var ErrEmptyHeap = errors.New("heap is empty")

type PriorityQueueNode[T comparable] struct {
	rank    float64
	item    T
	itemPos int
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func (p *PriorityQueueNode[T]) SetRank(rank float64) {
	p.rank = rank
}

func (p *PriorityQueueNode[T]) SetPos(i int) {
	p.itemPos = i
}

// GetPos. position in the heap array, -1 once extracted
func (p *PriorityQueueNode[T]) GetPos() int {
	return p.itemPos
}

func (p *PriorityQueueNode[T]) InHeap() bool {
	return p.itemPos >= 0
}

// Reset. reuse a node that is not in any heap
func (p *PriorityQueueNode[T]) Reset(rank float64, item T) {
	p.rank = rank
	p.item = item
	p.itemPos = -1
}

func NewPriorityQueueNode[T comparable](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item, itemPos: -1}
}

// MinHeap. indexed d-ary min-heap with decrease-key. every node knows its own position,
// so DecreaseKey is O(log_d N) without a lookup table.
// ties on rank are broken by tieLess(item) when set.
type MinHeap[T comparable] struct {
	heap    []*PriorityQueueNode[T]
	d       int
	tieLess func(a, b T) bool
}

func NewBinaryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](2)
}

func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T comparable](d int) *MinHeap[T] {
	if d < 2 {
		d = 2
	}
	return &MinHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
	}
}

// NewdAryHeapWithTieBreak. heap ordered by (rank, item) with tieLess as the item order
func NewdAryHeapWithTieBreak[T comparable](d int, tieLess func(a, b T) bool) *MinHeap[T] {
	h := NewdAryHeap[T](d)
	h.tieLess = tieLess
	return h
}

func (h *MinHeap[T]) Preallocate(maxSearchSize int) {
	h.heap = make([]*PriorityQueueNode[T], 0, maxSearchSize)
}

func (h *MinHeap[T]) less(i, j int) bool {
	a, b := h.heap[i], h.heap[j]
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return h.tieLess != nil && h.tieLess(a.item, b.item)
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

// heapifyUp. swap with parent while smaller than parent. O(log_d N)
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.Swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown. swap with the smallest child while a child is smaller. O(d log_d N)
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		leftMostChild := index*h.d + 1
		if leftMostChild >= len(h.heap) {
			return
		}

		sentinel := min(leftMostChild+h.d, len(h.heap))

		smallest := leftMostChild
		for i := leftMostChild + 1; i < sentinel; i++ {
			if h.less(i, smallest) {
				smallest = i
			}
		}

		if !h.less(smallest, index) {
			return
		}
		h.Swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) Swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]

	h.heap[i].SetPos(i)
	h.heap[j].SetPos(j)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// Clear. keeps the backing array
func (h *MinHeap[T]) Clear() {
	for _, n := range h.heap {
		n.SetPos(-1)
	}
	h.heap = h.heap[:0]
}

func (h *MinHeap[T]) GetMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, ErrEmptyHeap
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) GetMinRank() float64 {
	if h.IsEmpty() {
		return 2 * pkg.INF_WEIGHT
	}
	return h.heap[0].rank
}

func (h *MinHeap[T]) Insert(key *PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	index := h.Size() - 1
	key.SetPos(index)
	h.heapifyUp(index)
}

// ExtractMin. pop the minimum. O(d log_d N)
func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, ErrEmptyHeap
	}
	root := h.heap[0]

	last := h.Size() - 1
	h.Swap(0, last)
	h.heap[last] = nil
	h.heap = h.heap[:last]
	root.SetPos(-1)
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}

	return root, nil
}

// DecreaseKey. lower the rank of a node still in the heap.
func (h *MinHeap[T]) DecreaseKey(item *PriorityQueueNode[T], rank float64) error {
	itemPos := item.GetPos()
	if itemPos < 0 || itemPos >= h.Size() || h.heap[itemPos] != item || item.GetRank() < rank {
		return errors.New("invalid index or new value")
	}

	item.SetRank(rank)
	h.heapifyUp(itemPos)
	return nil
}
