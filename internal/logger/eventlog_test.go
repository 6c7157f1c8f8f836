package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventLogger_CategoriesAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	journal := NewJournal(10)
	events := NewEventLogger(zap.New(core), journal)

	events.Log(CategoryBuy, "Transaction successful", zap.String("mint", "ABC123"))
	events.Log(CategoryError, "Trade request failed")
	events.Log(CategoryFatal, "Max reconnection attempts reached. Giving up.")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "buy", entries[0].ContextMap()[CategoryKey])
	assert.Equal(t, "ABC123", entries[0].ContextMap()["mint"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "fatal", entries[2].ContextMap()[CategoryKey])

	assert.Equal(t, 1, journal.Count(CategoryBuy))
	assert.Equal(t, 1, journal.Count(CategoryError))
	assert.Equal(t, 1, journal.Count(CategoryFatal))
	assert.Equal(t, 0, journal.Count(CategorySell))
}

func TestEventLogger_NilJournal(t *testing.T) {
	events := NewEventLogger(zap.NewNop(), nil)
	assert.NotPanics(t, func() {
		events.Log(CategoryInfo, "Bot started.")
	})
}

func TestCategoryCore_FormatsLabel(t *testing.T) {
	inner, logs := observer.New(zapcore.InfoLevel)
	zl := zap.New(NewCategoryCore(inner))

	zl.Info("Sell transaction successful", zap.String(CategoryKey, "sell"), zap.Int("extra", 1))
	zl.Error("boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Message, "[SELL] Sell transaction successful")
	assert.Empty(t, entries[0].Context)
	assert.Contains(t, entries[1].Message, "[ERROR] boom")
}

func TestCategoryCore_WithCarriesCategory(t *testing.T) {
	inner, logs := observer.New(zapcore.InfoLevel)
	zl := zap.New(NewCategoryCore(inner)).With(zap.String(CategoryKey, "check"))

	zl.Info("Newly minted token detected")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "[CHECK]")
}
