package game

import (
	"container/heap"
	"time"
)

// noOwner marks callbacks owned by the session itself; they are never
// skipped for liveness.
const noOwner Handle = 0

// scheduled is one pending one-shot callback.
type scheduled struct {
	at    time.Duration
	seq   uint64
	owner Handle
	fn    func(at time.Duration)
}

type scheduleHeap []*scheduled

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduleHeap) Push(x any)   { *h = append(*h, x.(*scheduled)) }
func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Scheduler is the per-session queue of timed one-shot callbacks (burst
// fire, delayed mode reversion, warm-up arming, HUD pushes). It runs on
// session time, never on the wall clock, and is polled once per tick.
type Scheduler struct {
	queue scheduleHeap
	seq   uint64
	alive func(Handle) bool
}

// NewScheduler creates a scheduler. alive reports whether an owner still
// exists; callbacks of dead owners are dropped when they come due. A nil
// alive treats every owner as live.
func NewScheduler(alive func(Handle) bool) *Scheduler {
	return &Scheduler{alive: alive}
}

// At schedules fn to run at session time at on behalf of owner. fn receives
// the scheduled time, which may be earlier than the tick that runs it.
func (s *Scheduler) At(at time.Duration, owner Handle, fn func(at time.Duration)) {
	s.seq++
	heap.Push(&s.queue, &scheduled{at: at, seq: s.seq, owner: owner, fn: fn})
}

// After schedules fn delay after now.
func (s *Scheduler) After(now, delay time.Duration, owner Handle, fn func(at time.Duration)) {
	s.At(now+delay, owner, fn)
}

// Run fires every callback due at or before now, in (time, insertion) order.
// Callbacks scheduled during Run that are already due also fire. Returns the
// number of callbacks executed.
func (s *Scheduler) Run(now time.Duration) int {
	ran := 0
	for len(s.queue) > 0 && s.queue[0].at <= now {
		it := heap.Pop(&s.queue).(*scheduled)
		if it.owner != noOwner && s.alive != nil && !s.alive(it.owner) {
			continue
		}
		it.fn(it.at)
		ran++
	}
	return ran
}

// CancelOwner drops every pending callback of owner. Returns how many were
// removed.
func (s *Scheduler) CancelOwner(owner Handle) int {
	kept := s.queue[:0]
	removed := 0
	for _, it := range s.queue {
		if it.owner == owner {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(s.queue); i++ {
		s.queue[i] = nil
	}
	s.queue = kept
	heap.Init(&s.queue)
	return removed
}

// Pending returns the number of queued callbacks.
func (s *Scheduler) Pending() int { return len(s.queue) }

// PendingFor returns the number of queued callbacks owned by owner.
func (s *Scheduler) PendingFor(owner Handle) int {
	n := 0
	for _, it := range s.queue {
		if it.owner == owner {
			n++
		}
	}
	return n
}
