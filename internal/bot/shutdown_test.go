package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestShutdownHandler_ClosesInReverseOrder(t *testing.T) {
	sh := NewShutdownHandler(zaptest.NewLogger(t), time.Second)

	var order []string
	sh.AddFunc("logger", func() error { order = append(order, "logger"); return nil })
	sh.AddFunc("redis", func() error { order = append(order, "redis"); return errors.New("already closed") })
	sh.AddFunc("export", func() error { order = append(order, "export"); return nil })

	err := sh.Shutdown()
	assert.Equal(t, []string{"export", "redis", "logger"}, order)
	assert.ErrorContains(t, err, "redis: already closed")

	// second call does not close again
	assert.Equal(t, err, sh.Shutdown())
	assert.Len(t, order, 3)
}

func TestShutdownHandler_Timeout(t *testing.T) {
	sh := NewShutdownHandler(zaptest.NewLogger(t), 20*time.Millisecond)
	block := make(chan struct{})
	defer close(block)

	sh.AddFunc("stuck", func() error { <-block; return nil })

	assert.ErrorContains(t, sh.Shutdown(), "stuck: shutdown timeout")
}
