package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// VirtualLoop is a Scheduler with a manual clock. Nothing runs until the
// owner calls RunPending or Advance, which makes it suitable for tests and
// offline simulations.
type VirtualLoop struct {
	mu     sync.Mutex
	now    time.Time
	ready  []func()
	timers timerHeap
	seq    uint64
}

// NewVirtualLoop returns a VirtualLoop whose clock starts at start.
func NewVirtualLoop(start time.Time) *VirtualLoop {
	return &VirtualLoop{now: start}
}

func (v *VirtualLoop) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *VirtualLoop) Post(fn func()) {
	v.mu.Lock()
	v.ready = append(v.ready, fn)
	v.mu.Unlock()
}

func (v *VirtualLoop) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &virtualTimer{loop: v, when: v.now.Add(d), seq: v.seq, fn: fn, index: -1}
	heap.Push(&v.timers, t)
	return t
}

// RunPending runs posted callbacks, and anything they post in turn, until
// the ready list is empty. Timers are not fired. It returns the number of
// callbacks run.
func (v *VirtualLoop) RunPending() int {
	n := 0
	for {
		v.mu.Lock()
		if len(v.ready) == 0 {
			v.mu.Unlock()
			return n
		}
		fn := v.ready[0]
		v.ready = v.ready[1:]
		v.mu.Unlock()

		fn()
		n++
	}
}

// Advance moves the clock forward by d, firing every timer that falls due
// in order of deadline. Posted callbacks are drained before each timer and
// once more at the end.
func (v *VirtualLoop) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	v.RunPending()
	for {
		v.mu.Lock()
		if len(v.timers) == 0 || v.timers[0].when.After(target) {
			v.now = target
			v.mu.Unlock()
			break
		}
		t := heap.Pop(&v.timers).(*virtualTimer)
		if t.when.After(v.now) {
			v.now = t.when
		}
		v.mu.Unlock()

		t.fn()
		v.RunPending()
	}
	v.RunPending()
}

// Pending reports the number of posted callbacks and armed timers.
func (v *VirtualLoop) Pending() (ready, timers int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.ready), len(v.timers)
}

type virtualTimer struct {
	loop  *VirtualLoop
	when  time.Time
	seq   uint64
	fn    func()
	index int
}

func (t *virtualTimer) Stop() bool {
	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.timers, t.index)
	return true
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*virtualTimer)
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
