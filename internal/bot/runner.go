// internal/bot/runner.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/blockchain/solbc"
	"github.com/rovshanmuradov/pump-sniper/internal/config"
	"github.com/rovshanmuradov/pump-sniper/internal/dedupe"
	"github.com/rovshanmuradov/pump-sniper/internal/feed"
	"github.com/rovshanmuradov/pump-sniper/internal/guard"
	"github.com/rovshanmuradov/pump-sniper/internal/holdings"
	"github.com/rovshanmuradov/pump-sniper/internal/logger"
	"github.com/rovshanmuradov/pump-sniper/internal/trade"
	"github.com/rovshanmuradov/pump-sniper/internal/wallet"
)

// Runner wires every component from the configuration and runs the engine.
type Runner struct {
	cfg      *config.Config
	log      *logger.Logger
	shutdown *ShutdownHandler
}

func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		shutdown: NewShutdownHandler(log.Logger, 10*time.Second),
	}
}

// Run blocks until SIGINT/SIGTERM or ctx is cancelled, then shuts down.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := r.shutdown.NotifyContext(ctx)
	defer cancel()

	engine, err := r.build(ctx)
	if err != nil {
		_ = r.shutdown.Shutdown()
		return err
	}

	runErr := engine.Run(ctx)
	r.log.Info("Bot shutting down")
	if err := r.shutdown.Shutdown(); err != nil {
		r.log.Warn("Shutdown completed with errors", zap.Error(err))
	}
	return runErr
}

// Shutdown closes registered services; safe to call more than once.
func (r *Runner) Shutdown() error {
	return r.shutdown.Shutdown()
}

func (r *Runner) build(ctx context.Context) (*Engine, error) {
	cfg := r.cfg
	zl := r.log.Logger
	events := r.log.Events

	w, err := wallet.Load(cfg.WalletPrivateKey, cfg.WalletPublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	zl.Info("Wallet loaded", zap.String("public_key", w.String()))

	clk := clock.New()
	rt := NewRuntime(cfg, clk, events, zl)

	// первым зарегистрирован, последним выполняется
	r.shutdown.AddFunc("session-summary", sessionSummary(r.log, recentErrorsInSummary))

	client := solbc.NewClient(cfg.RPCEndpoint, zl)
	balanceGuard := guard.NewBalanceGuard(client, w.PublicKey, cfg.LowBalanceLamports(), guard.Options{
		Attempts:   uint(cfg.RetryAttempts),
		RetryDelay: cfg.RetryDelay(),
	}, zl)
	gateway := trade.NewGateway(client, w, trade.ParamsFromConfig(cfg), zl)

	var claimer dedupe.Claimer
	if cfg.DuplicatePolicy == config.PolicyRedis {
		rc, err := dedupe.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		r.shutdown.Add("redis", rc)
		claimer = rc
	}
	policy, err := dedupe.FromConfig(cfg, rt.Ledger, claimer)
	if err != nil {
		return nil, err
	}

	if cfg.HoldingsExportDir != "" {
		r.shutdown.AddFunc("holdings-export", exportHoldings(holdings.NewExporter(clk, zl), rt.Ledger, holdings.ExportOptions{
			Format:    holdings.ExportFormat(cfg.HoldingsExportFormat),
			OutputDir: cfg.HoldingsExportDir,
		}))
	}

	conn := feed.NewConnection(cfg.WSEndpoint, feed.Options{
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
		Clock:                clk,
	}, events, zl)

	router := NewRouter(rt, balanceGuard, gateway, policy, conn)
	return NewEngine(rt, conn, router), nil
}

const recentErrorsInSummary = 5

// sessionSummary logs per-category totals, log file stats and the newest errors.
func sessionSummary(log *logger.Logger, lastErrors int) func() error {
	return func() error {
		s := log.Summary(lastErrors)
		log.Info("Session summary", s.Fields()...)
		for _, rec := range s.LastErrors {
			log.Info("Recent error",
				zap.Time("at", rec.Timestamp),
				zap.String("text", rec.Message))
		}
		return nil
	}
}

// exportHoldings writes the ledger snapshot; an empty ledger is not an error.
func exportHoldings(exporter *holdings.Exporter, ledger *holdings.Ledger, opts holdings.ExportOptions) func() error {
	return func() error {
		_, err := exporter.Export(ledger.Snapshot(), opts)
		if errors.Is(err, holdings.ErrNothingToExport) {
			return nil
		}
		return err
	}
}
