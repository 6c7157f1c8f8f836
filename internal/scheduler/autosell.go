// internal/scheduler/autosell.go
package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ScheduledSell is a one-shot sell armed after a successful buy.
type ScheduledSell struct {
	Mint    string
	Amount  float64
	ArmedAt time.Time
	FireAt  time.Time
	Seq     uint64
}

// sellQueue упорядочена по FireAt, при равенстве по Seq.
type sellQueue []ScheduledSell

func (q sellQueue) Len() int { return len(q) }

func (q sellQueue) Less(i, j int) bool {
	if q[i].FireAt.Equal(q[j].FireAt) {
		return q[i].Seq < q[j].Seq
	}
	return q[i].FireAt.Before(q[j].FireAt)
}

func (q sellQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *sellQueue) Push(x any) { *q = append(*q, x.(ScheduledSell)) }

func (q *sellQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// AutoSell keeps armed sells keyed by fire time. Entries cannot be cancelled.
type AutoSell struct {
	mu    sync.Mutex
	clock clock.Clock
	queue sellQueue
	seq   uint64
}

func New(clk clock.Clock) *AutoSell {
	if clk == nil {
		clk = clock.New()
	}
	return &AutoSell{clock: clk}
}

// Arm schedules a sell of amount for mint at now+delay.
func (s *AutoSell) Arm(mint string, amount float64, delay time.Duration) ScheduledSell {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.seq++
	sell := ScheduledSell{
		Mint:    mint,
		Amount:  amount,
		ArmedAt: now,
		FireAt:  now.Add(delay),
		Seq:     s.seq,
	}
	heap.Push(&s.queue, sell)
	return sell
}

// Next returns the fire time of the earliest pending sell.
func (s *AutoSell) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].FireAt, true
}

// Due removes and returns every sell whose fire time has passed, in fire order.
func (s *AutoSell) Due() []ScheduledSell {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var due []ScheduledSell
	for len(s.queue) > 0 && !s.queue[0].FireAt.After(now) {
		due = append(due, heap.Pop(&s.queue).(ScheduledSell))
	}
	return due
}

// Pending returns a copy of the queue in fire order.
func (s *AutoSell) Pending() []ScheduledSell {
	s.mu.Lock()
	cp := make(sellQueue, len(s.queue))
	copy(cp, s.queue)
	s.mu.Unlock()

	out := make([]ScheduledSell, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(ScheduledSell))
	}
	return out
}

func (s *AutoSell) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
