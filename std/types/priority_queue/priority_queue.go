// Package priority_queue implements a generic binary min-heap keyed by an
// ordered priority. The forwarding core's reactor uses it as the timer
// wheel for PIT UnsatisfyTimer/StragglerTimer: the item with the smallest priority (soonest fire time) always sits at
// the root, so the reactor only has to peek at index 0 to know how long it
// can sleep before the next timer fires.
package priority_queue

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// Item is a handle returned by Push. Holding onto it lets a caller update
// or cancel the entry later without searching the heap.
type Item[V any, P constraints.Ordered] struct {
	object    V
	priority  P
	index     int
	cancelled bool
}

// Value returns the item's current payload.
func (item *Item[V, P]) Value() V {
	return item.object
}

// Cancelled reports whether Remove has already been called on this item.
// A timer callback that captured the item before it fired should check
// this and no-op if true, rather than trust that it is still in the heap.
func (item *Item[V, P]) Cancelled() bool {
	return item.cancelled
}

type heapSlice[V any, P constraints.Ordered] []*Item[V, P]

// Queue is a minimum-priority heap: Pop always returns the least element.
type Queue[V any, P constraints.Ordered] struct {
	items heapSlice[V, P]
}

func (h *heapSlice[V, P]) Len() int { return len(*h) }

func (h *heapSlice[V, P]) Less(i, j int) bool {
	return (*h)[i].priority < (*h)[j].priority
}

func (h *heapSlice[V, P]) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].index = i
	(*h)[j].index = j
}

func (h *heapSlice[V, P]) Push(x any) {
	item := x.(*Item[V, P])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *heapSlice[V, P]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// New constructs an empty priority queue. The zero value is also usable.
func New[V any, P constraints.Ordered]() Queue[V, P] {
	return Queue[V, P]{}
}

// Len reports the number of live (non-removed) items.
func (pq *Queue[V, P]) Len() int {
	return pq.items.Len()
}

// Push inserts value at the given priority and returns a handle to it.
func (pq *Queue[V, P]) Push(value V, priority P) *Item[V, P] {
	item := &Item[V, P]{object: value, priority: priority}
	heap.Push(&pq.items, item)
	return item
}

// Peek returns the minimum-priority value without removing it. Panics if
// the queue is empty.
func (pq *Queue[V, P]) Peek() V {
	return pq.items[0].object
}

// PeekPriority returns the minimum priority without removing its item.
func (pq *Queue[V, P]) PeekPriority() P {
	return pq.items[0].priority
}

// Pop removes and returns the minimum-priority value.
func (pq *Queue[V, P]) Pop() V {
	return heap.Pop(&pq.items).(*Item[V, P]).object
}

// Remove cancels item, removing it from the heap if it is still present.
// Safe to call more than once, and safe to call after the item has already
// fired and been popped naturally.
func (pq *Queue[V, P]) Remove(item *Item[V, P]) {
	if item.cancelled {
		return
	}
	item.cancelled = true
	if item.index < 0 || item.index >= len(pq.items) || pq.items[item.index] != item {
		return
	}
	heap.Remove(&pq.items, item.index)
}

// UpdatePriority re-sorts item after its priority has been mutated.
func (pq *Queue[V, P]) UpdatePriority(item *Item[V, P], priority P) {
	item.priority = priority
	heap.Fix(&pq.items, item.index)
}
