// internal/guard/balance.go
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/blockchain"
)

// Decision is the outcome of a balance check.
type Decision struct {
	Allowed   bool
	Balance   uint64
	Threshold uint64
	// Err is set when the balance could not be read; the guard fails closed.
	Err error
}

// Reason describes why a buy was refused.
func (d Decision) Reason() string {
	if d.Allowed {
		return ""
	}
	if d.Err != nil {
		return fmt.Sprintf("Failed to check balance: %v", d.Err)
	}
	return fmt.Sprintf("Low balance detected: %.4f SOL only available, Quitting.", float64(d.Balance)/float64(solana.LAMPORTS_PER_SOL))
}

// Options tunes the balance query retry.
type Options struct {
	Attempts   uint
	RetryDelay time.Duration
}

// BalanceGuard decides buy eligibility from a fresh wallet balance on every call.
type BalanceGuard struct {
	client    blockchain.Client
	owner     solana.PublicKey
	threshold uint64
	opts      Options
	logger    *zap.Logger
}

func NewBalanceGuard(client blockchain.Client, owner solana.PublicKey, thresholdLamports uint64, opts Options, logger *zap.Logger) *BalanceGuard {
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	return &BalanceGuard{
		client:    client,
		owner:     owner,
		threshold: thresholdLamports,
		opts:      opts,
		logger:    logger.Named("balance-guard"),
	}
}

// Check reads the balance and compares it against the threshold.
func (g *BalanceGuard) Check(ctx context.Context) Decision {
	op := func() (uint64, error) {
		return g.client.GetBalance(ctx, g.owner, rpc.CommitmentConfirmed)
	}

	balance, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewConstantBackOff(g.opts.RetryDelay)),
		backoff.WithMaxTries(g.opts.Attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			g.logger.Debug("Balance query failed, retrying",
				zap.Error(err),
				zap.Duration("next", next))
		}),
	)
	if err != nil {
		return Decision{Threshold: g.threshold, Err: err}
	}

	return Decision{
		Allowed:   balance >= g.threshold,
		Balance:   balance,
		Threshold: g.threshold,
	}
}

// CanBuy reports whether the wallet balance is at or above the threshold.
func (g *BalanceGuard) CanBuy(ctx context.Context) bool {
	return g.Check(ctx).Allowed
}
