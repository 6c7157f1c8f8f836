// internal/bot/runtime.go
package bot

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/config"
	"github.com/rovshanmuradov/pump-sniper/internal/holdings"
	"github.com/rovshanmuradov/pump-sniper/internal/logger"
	"github.com/rovshanmuradov/pump-sniper/internal/scheduler"
)

// Runtime holds the state shared by every pipeline. It is created once in
// main and passed to constructors; nothing here is package-level.
type Runtime struct {
	Config    *config.Config
	Clock     clock.Clock
	Ledger    *holdings.Ledger
	Scheduler *scheduler.AutoSell
	Events    logger.EventLog
	Logger    *zap.Logger

	buying atomic.Bool
}

func NewRuntime(cfg *config.Config, clk clock.Clock, events logger.EventLog, log *zap.Logger) *Runtime {
	if clk == nil {
		clk = clock.New()
	}
	rt := &Runtime{
		Config:    cfg,
		Clock:     clk,
		Ledger:    holdings.NewLedger(clk),
		Scheduler: scheduler.New(clk),
		Events:    events,
		Logger:    log,
	}
	rt.buying.Store(cfg.BuyingEnabled)
	return rt
}

// BuyingEnabled reports whether new buys may be placed.
func (rt *Runtime) BuyingEnabled() bool {
	return rt.buying.Load()
}

// SetBuyingEnabled toggles buying. Armed sells are unaffected.
func (rt *Runtime) SetBuyingEnabled(enabled bool) {
	rt.buying.Store(enabled)
}
