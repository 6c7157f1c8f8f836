// internal/bot/router.go
package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/dedupe"
	"github.com/rovshanmuradov/pump-sniper/internal/guard"
	"github.com/rovshanmuradov/pump-sniper/internal/logger"
	"github.com/rovshanmuradov/pump-sniper/internal/scheduler"
	"github.com/rovshanmuradov/pump-sniper/internal/trade"
)

// SubscriptionAck is the message the feed sends after subscribing.
const SubscriptionAck = "Successfully subscribed to token creation events."

// TokenEvent is an inbound creation event. Other fields are ignored.
type TokenEvent struct {
	Mint    string
	Message string
}

// decodeEvent reads mint and message independently so that feed metadata of
// an unexpected type never hides a valid mint.
func decodeEvent(raw []byte) (TokenEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return TokenEvent{}, err
	}

	var event TokenEvent
	if msg, ok := fields["message"]; ok {
		_ = json.Unmarshal(msg, &event.Message)
	}
	if mint, ok := fields["mint"]; ok {
		// non-string mint stays empty and is rejected as invalid
		_ = json.Unmarshal(mint, &event.Mint)
	}
	return event, nil
}

// BalanceGuard decides whether a buy may proceed.
type BalanceGuard interface {
	Check(ctx context.Context) guard.Decision
}

// TradeGateway places orders.
type TradeGateway interface {
	Buy(ctx context.Context, mint string) trade.OrderResult
	Sell(ctx context.Context, mint string, amount float64) trade.OrderResult
}

// Subscriber re-issues the feed subscription.
type Subscriber interface {
	Subscribe() error
}

// Router validates inbound frames and runs the buy and sell pipelines.
type Router struct {
	rt      *Runtime
	guard   BalanceGuard
	gateway TradeGateway
	policy  dedupe.Policy
	feed    Subscriber
}

func NewRouter(rt *Runtime, g BalanceGuard, gw TradeGateway, policy dedupe.Policy, feed Subscriber) *Router {
	if policy == nil {
		policy = dedupe.Allow()
	}
	return &Router{
		rt:      rt,
		guard:   g,
		gateway: gw,
		policy:  policy,
		feed:    feed,
	}
}

// Handle processes one raw feed frame.
func (r *Router) Handle(ctx context.Context, raw []byte) {
	event, err := decodeEvent(raw)
	if err != nil {
		r.rt.Events.Log(logger.CategoryCheck, fmt.Sprintf("Failed to decode message: %v", err),
			zap.ByteString("payload", raw))
		return
	}

	if event.Message == SubscriptionAck {
		r.rt.Events.Log(logger.CategoryInfo, event.Message)
		return
	}

	r.rt.Events.Log(logger.CategoryInfo, fmt.Sprintf("Received new token!: %s", raw))

	if event.Mint == "" {
		r.rt.Events.Log(logger.CategoryCheck, "Invalid or duplicate token data received.",
			zap.ByteString("payload", raw))
		return
	}

	r.rt.Events.Log(logger.CategoryCheck, fmt.Sprintf("Newly minted token detected: %s", event.Mint))
	r.buy(ctx, event.Mint)
}

func (r *Router) buy(ctx context.Context, mint string) {
	fields := []zap.Field{
		zap.String("mint", mint),
		zap.String("pipeline_id", uuid.NewString()),
	}
	events := r.rt.Events

	if !r.rt.BuyingEnabled() {
		events.Log(logger.CategoryCheck, "Buying is disabled. Skipping buy order.", fields...)
		return
	}

	if d := r.guard.Check(ctx); !d.Allowed {
		events.Log(logger.CategoryError, d.Reason(), append(fields, zap.Uint64("balance", d.Balance))...)
		return
	}

	// claim only once the guard passed; a refused buy must not hold the mint
	ok, err := r.policy.Claim(ctx, mint)
	if err != nil {
		events.Log(logger.CategoryError, fmt.Sprintf("Duplicate check failed: %v", err), fields...)
	}
	if !ok {
		events.Log(logger.CategoryCheck, fmt.Sprintf("Token %s already claimed. Skipping buy order.", mint), fields...)
		return
	}

	res := r.gateway.Buy(ctx, mint)
	if !res.OK() {
		events.Log(logger.CategoryError, failureMessage("buy", res.Failure), fields...)
		if err := r.policy.Release(ctx, mint); err != nil {
			r.rt.Logger.Warn("Failed to release mint claim", append(fields, zap.Error(err))...)
		}
		if err := r.feed.Subscribe(); err != nil {
			r.rt.Logger.Warn("Resubscription failed", zap.Error(err))
		}
		return
	}

	events.Log(logger.CategoryBuy, fmt.Sprintf("Transaction successful: %s", res.ExplorerURL()),
		append(fields, zap.String("signature", res.Signature.String()))...)

	investment := r.rt.Config.InvestmentAmount
	r.rt.Ledger.RecordIfAbsent(mint, investment)
	sell := r.rt.Scheduler.Arm(mint, investment, r.rt.Config.AutoSellDelay())

	r.rt.Logger.Debug("Auto-sell armed",
		zap.String("mint", mint),
		zap.Time("fire_at", sell.FireAt),
		zap.Uint64("seq", sell.Seq))
}

// FireSell executes a scheduled sell. It is never gated by the buying flag.
func (r *Router) FireSell(ctx context.Context, s scheduler.ScheduledSell) {
	events := r.rt.Events
	fields := []zap.Field{zap.String("mint", s.Mint), zap.Uint64("seq", s.Seq)}

	elapsed := int(s.FireAt.Sub(s.ArmedAt).Seconds())
	events.Log(logger.CategorySell,
		fmt.Sprintf("%d seconds passed since purchase. Executing sell order for %s.", elapsed, s.Mint),
		fields...)

	res := r.gateway.Sell(ctx, s.Mint, s.Amount)
	if !res.OK() {
		events.Log(logger.CategoryError, failureMessage("sell", res.Failure), fields...)
		return
	}

	events.Log(logger.CategorySell, fmt.Sprintf("Sell transaction successful: %s", res.ExplorerURL()),
		append(fields, zap.String("signature", res.Signature.String()))...)
}

func failureMessage(side string, f *trade.Failure) string {
	if f.Kind == trade.FailureHTTP {
		return f.Error()
	}
	return fmt.Sprintf("Error executing %s order: %s", side, f.Error())
}
