// internal/bot/engine.go
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/pump-sniper/internal/logger"
)

const inboundBuffer = 256

// Feed delivers raw frames and can re-issue its subscription.
type Feed interface {
	Subscriber
	Run(ctx context.Context, out chan<- []byte) error
}

// Engine runs the feed and a single dispatch loop. Frames and scheduled sells
// are handled one at a time on the loop goroutine.
type Engine struct {
	rt      *Runtime
	feed    Feed
	router  *Router
	inbound chan []byte
}

func NewEngine(rt *Runtime, feed Feed, router *Router) *Engine {
	return &Engine{
		rt:      rt,
		feed:    feed,
		router:  router,
		inbound: make(chan []byte, inboundBuffer),
	}
}

// Run blocks until ctx is cancelled. Giving up on the feed does not stop the
// loop: sells that are already armed still fire.
func (e *Engine) Run(ctx context.Context) error {
	e.rt.Events.Log(logger.CategoryInfo, "Bot started.")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		e.safely(func() { err = e.feed.Run(gCtx, e.inbound) })
		if err != nil {
			return fmt.Errorf("feed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return e.loop(gCtx)
	})

	return g.Wait()
}

func (e *Engine) loop(ctx context.Context) error {
	for {
		e.fireDue(ctx)

		var (
			timer  *clock.Timer
			timerC <-chan time.Time
		)
		if next, ok := e.rt.Scheduler.Next(); ok {
			wait := next.Sub(e.rt.Clock.Now())
			if wait <= 0 {
				continue
			}
			timer = e.rt.Clock.Timer(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil
		case raw := <-e.inbound:
			stopTimer(timer)
			e.safely(func() { e.router.Handle(ctx, raw) })
		case <-timerC:
		}
	}
}

func (e *Engine) fireDue(ctx context.Context) {
	for _, s := range e.rt.Scheduler.Due() {
		s := s
		e.safely(func() { e.router.FireSell(ctx, s) })
	}
}

// safely runs fn and turns a panic into an error log.
func (e *Engine) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.rt.Events.Log(logger.CategoryError, fmt.Sprintf("Unhandled error: %v", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	fn()
}

func stopTimer(t *clock.Timer) {
	if t != nil {
		t.Stop()
	}
}
