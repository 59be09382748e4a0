package core

import "container/heap"

// Clock is the simulation time source handed to controllers. Callbacks passed
// to After always run on the tick loop, serialized with every other mutation.
type Clock interface {
	Now() float64
	After(delay float64, fn func())
}

// Scheduler runs deferred callbacks on the tick loop. Timers cannot be
// cancelled; callbacks guard themselves with liveness checks instead.
type Scheduler struct {
	now    float64
	seq    uint64
	timers timerHeap
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns seconds of simulation time since the scheduler was created.
func (s *Scheduler) Now() float64 {
	return s.now
}

// After schedules fn to run once at least delay seconds have elapsed.
// Non-positive delays run on the next Advance.
func (s *Scheduler) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.timers, &timer{due: s.now + delay, seq: s.seq, fn: fn})
}

// Pending reports how many callbacks have not fired yet.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Advance moves the clock forward by dt and fires every due callback in due
// order. Callbacks scheduled while firing run in the same Advance when they
// are already due.
func (s *Scheduler) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	for len(s.timers) > 0 && s.timers[0].due <= s.now {
		t := heap.Pop(&s.timers).(*timer)
		t.fn()
	}
}

type timer struct {
	due float64
	seq uint64
	fn  func()
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].seq < h[j].seq
	}
	return h[i].due < h[j].due
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
