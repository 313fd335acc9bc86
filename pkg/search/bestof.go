package search

import "container/heap"

// DefaultCapacity is the size of the nudge search's best-of set.
const DefaultCapacity = 20

// candidateHeap is a max-heap on volume: the root is the worst candidate
// kept, so it is the one evicted when the set overflows.
type candidateHeap []Candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].Volume > h[j].Volume }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(Candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// bestOf keeps the lowest-volume candidates accepted so far, up to a fixed
// capacity, and remembers the most recent one. It only steers sampling;
// the search answer is tracked separately.
type bestOf struct {
	h        candidateHeap
	capacity int
	last     Candidate
	accepted int
}

func newBestOf(capacity int) *bestOf {
	return &bestOf{h: make(candidateHeap, 0, capacity+1), capacity: capacity}
}

// Add inserts c, evicting the worst kept candidate when over capacity.
func (b *bestOf) Add(c Candidate) {
	heap.Push(&b.h, c)
	if b.h.Len() > b.capacity {
		heap.Pop(&b.h)
	}
	b.last = c
	b.accepted++
}

// Last returns the most recently added candidate.
func (b *bestOf) Last() (Candidate, bool) {
	return b.last, b.accepted > 0
}

// Len returns the number of kept candidates.
func (b *bestOf) Len() int { return b.h.Len() }

// Worst returns the highest-volume kept candidate.
func (b *bestOf) Worst() (Candidate, bool) {
	if b.h.Len() == 0 {
		return Candidate{}, false
	}
	return b.h[0], true
}
