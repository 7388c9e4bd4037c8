package eventloop

import (
	"container/heap"
	"time"
)

// timer is one scheduled callback: one-shot if interval == 0, recurring
// otherwise.
type timer struct {
	id        CallbackID
	deadline  time.Time
	interval  time.Duration
	cb        func()
	seq       uint64
	cancelled bool
	index     int // heap index, maintained by container/heap
}

// timerHeap orders timers by deadline, breaking ties by registration
// order so that simultaneous deadlines fire in the order they were
// scheduled.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

var _ = heap.Interface(&timerHeap{})
