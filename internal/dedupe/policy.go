// internal/dedupe/policy.go
package dedupe

import (
	"context"
	"fmt"

	"github.com/rovshanmuradov/pump-sniper/internal/config"
)

// Policy decides whether a creation event for mint may trigger a buy.
// Release gives a claim back after the buy failed.
type Policy interface {
	Claim(ctx context.Context, mint string) (bool, error)
	Release(ctx context.Context, mint string) error
}

// HoldingsView is the part of the ledger the skip-held policy reads.
type HoldingsView interface {
	Has(mint string) bool
}

type allowAll struct{}

// Allow returns the policy that lets every event through, duplicates included.
func Allow() Policy { return allowAll{} }

func (allowAll) Claim(context.Context, string) (bool, error) { return true, nil }

func (allowAll) Release(context.Context, string) error { return nil }

type skipHeld struct {
	holdings HoldingsView
}

// SkipHeld declines mints that already have a holding.
func SkipHeld(holdings HoldingsView) Policy {
	return skipHeld{holdings: holdings}
}

func (p skipHeld) Claim(_ context.Context, mint string) (bool, error) {
	return !p.holdings.Has(mint), nil
}

// Release is a no-op: a failed buy never records a holding.
func (skipHeld) Release(context.Context, string) error { return nil }

// FromConfig resolves the configured policy. claimer is only used for the
// redis policy and may be nil otherwise.
func FromConfig(cfg *config.Config, holdings HoldingsView, claimer Claimer) (Policy, error) {
	switch cfg.DuplicatePolicy {
	case "", config.PolicyAllow:
		return Allow(), nil
	case config.PolicySkipHeld:
		return SkipHeld(holdings), nil
	case config.PolicyRedis:
		if claimer == nil {
			return nil, fmt.Errorf("redis policy requires a redis client")
		}
		return NewRedis(claimer, DefaultClaimTTL), nil
	default:
		return nil, fmt.Errorf("unknown duplicate policy %q", cfg.DuplicatePolicy)
	}
}
