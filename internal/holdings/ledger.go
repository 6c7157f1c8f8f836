// internal/holdings/ledger.go
package holdings

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Holding is a position acquired by a successful buy.
type Holding struct {
	Mint              string    `json:"mint"`
	Amount            float64   `json:"amount"`
	InitialInvestment float64   `json:"initial_investment"`
	AcquiredAt        time.Time `json:"acquired_at"`
}

// Ledger keeps at most one Holding per mint. Records are never updated or removed.
type Ledger struct {
	mu       sync.RWMutex
	clock    clock.Clock
	holdings map[string]Holding
}

func NewLedger(clk clock.Clock) *Ledger {
	if clk == nil {
		clk = clock.New()
	}
	return &Ledger{
		clock:    clk,
		holdings: make(map[string]Holding),
	}
}

// RecordIfAbsent stores a holding for mint unless one exists. It reports
// whether a new record was created.
func (l *Ledger) RecordIfAbsent(mint string, investment float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.holdings[mint]; ok {
		return false
	}
	l.holdings[mint] = Holding{
		Mint:              mint,
		Amount:            investment,
		InitialInvestment: investment,
		AcquiredAt:        l.clock.Now(),
	}
	return true
}

func (l *Ledger) Get(mint string) (Holding, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.holdings[mint]
	return h, ok
}

func (l *Ledger) Has(mint string) bool {
	_, ok := l.Get(mint)
	return ok
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.holdings)
}

// Snapshot returns a copy of all holdings ordered by acquisition time.
func (l *Ledger) Snapshot() []Holding {
	l.mu.RLock()
	out := make([]Holding, 0, len(l.holdings))
	for _, h := range l.holdings {
		out = append(out, h)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].AcquiredAt.Equal(out[j].AcquiredAt) {
			return out[i].Mint < out[j].Mint
		}
		return out[i].AcquiredAt.Before(out[j].AcquiredAt)
	})
	return out
}
