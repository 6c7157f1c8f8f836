// internal/feed/policy.go
package feed

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// LinearBackOff waits attempt×Step before each reconnect and stops after
// MaxAttempts. The counter is reset on every successful open.
type LinearBackOff struct {
	Step        time.Duration
	MaxAttempts int
	attempts    int
}

var _ backoff.BackOff = (*LinearBackOff)(nil)

func NewLinearBackOff(step time.Duration, maxAttempts int) *LinearBackOff {
	return &LinearBackOff{Step: step, MaxAttempts: maxAttempts}
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	if b.attempts >= b.MaxAttempts {
		return backoff.Stop
	}
	b.attempts++
	return time.Duration(b.attempts) * b.Step
}

func (b *LinearBackOff) Reset() {
	b.attempts = 0
}

// Attempts returns the number of reconnects since the last reset.
func (b *LinearBackOff) Attempts() int {
	return b.attempts
}
