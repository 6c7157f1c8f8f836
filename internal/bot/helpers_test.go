package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/config"
	"github.com/rovshanmuradov/pump-sniper/internal/guard"
	"github.com/rovshanmuradov/pump-sniper/internal/logger"
	"github.com/rovshanmuradov/pump-sniper/internal/trade"
)

const testMint = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

type entry struct {
	category logger.Category
	msg      string
}

type recordingLog struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLog) Log(category logger.Category, msg string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{category, msg})
}

func (r *recordingLog) byCategory(category logger.Category) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.category == category {
			out = append(out, e.msg)
		}
	}
	return out
}

func (r *recordingLog) contains(category logger.Category, substr string) bool {
	for _, msg := range r.byCategory(category) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

type fakeGuard struct {
	mu       sync.Mutex
	decision guard.Decision
	calls    int
}

func (g *fakeGuard) Check(context.Context) guard.Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.decision
}

func (g *fakeGuard) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type sellCall struct {
	mint   string
	amount float64
}

type fakeGateway struct {
	mu        sync.Mutex
	buyResult trade.OrderResult
	sellRes   trade.OrderResult
	buys      []string
	sells     []sellCall
	panicBuy  bool
}

func (g *fakeGateway) Buy(_ context.Context, mint string) trade.OrderResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.panicBuy {
		g.panicBuy = false
		panic("boom")
	}
	g.buys = append(g.buys, mint)
	return g.buyResult
}

func (g *fakeGateway) Sell(_ context.Context, mint string, amount float64) trade.OrderResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sells = append(g.sells, sellCall{mint, amount})
	return g.sellRes
}

func (g *fakeGateway) buyCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.buys)
}

func (g *fakeGateway) sellCalls() []sellCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sellCall(nil), g.sells...)
}

// fakeFeed pushes frames once, then blocks until ctx is done unless giveUp is set.
type fakeFeed struct {
	mu         sync.Mutex
	frames     [][]byte
	giveUp     bool
	subscribes int
}

func (f *fakeFeed) Run(ctx context.Context, out chan<- []byte) error {
	for _, frame := range f.frames {
		select {
		case out <- frame:
		case <-ctx.Done():
			return nil
		}
	}
	if f.giveUp {
		return nil
	}
	<-ctx.Done()
	return nil
}

func (f *fakeFeed) Subscribe() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	return nil
}

func (f *fakeFeed) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

func testConfig() *config.Config {
	return &config.Config{
		BuyingEnabled:       true,
		InvestmentAmount:    0.05,
		SlippageTolerance:   10,
		AutoSellDelayMs:     30000,
		LowBalanceThreshold: 0.02,
		DuplicatePolicy:     config.PolicyAllow,
	}
}

func okResult(sig byte) trade.OrderResult {
	return trade.OrderResult{Signature: solana.Signature{sig}}
}

type fixture struct {
	clock   *clock.Mock
	events  *recordingLog
	rt      *Runtime
	guard   *fakeGuard
	gateway *fakeGateway
	feed    *fakeFeed
	router  *Router
}

func newFixture() *fixture {
	clk := clock.NewMock()
	clk.Add(time.Hour)
	events := &recordingLog{}
	rt := NewRuntime(testConfig(), clk, events, zap.NewNop())

	f := &fixture{
		clock:   clk,
		events:  events,
		rt:      rt,
		guard:   &fakeGuard{decision: guard.Decision{Allowed: true, Balance: 1_000_000_000}},
		gateway: &fakeGateway{buyResult: okResult(1), sellRes: okResult(2)},
		feed:    &fakeFeed{},
	}
	f.router = NewRouter(rt, f.guard, f.gateway, nil, f.feed)
	return f
}
