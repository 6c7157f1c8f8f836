// internal/logger/eventlog.go
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category tags every event-log entry.
type Category string

const (
	CategoryInfo  Category = "info"
	CategoryBuy   Category = "buy"
	CategorySell  Category = "sell"
	CategoryCheck Category = "check"
	CategoryError Category = "error"
	CategoryFatal Category = "fatal"
)

// CategoryKey is the zap field carrying the category.
const CategoryKey = "category"

// Level maps a category to the zap level it is written at. Fatal entries are
// written at error level: giving up on the feed must not exit the process.
func (c Category) Level() zapcore.Level {
	switch c {
	case CategoryError, CategoryFatal:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// EventLog accepts categorized entries.
type EventLog interface {
	Log(category Category, msg string, fields ...zap.Field)
}

// EventLogger writes entries to zap and mirrors them into a Journal.
type EventLogger struct {
	logger  *zap.Logger
	journal *Journal
}

var _ EventLog = (*EventLogger)(nil)

// NewEventLogger creates an event logger. journal may be nil.
func NewEventLogger(logger *zap.Logger, journal *Journal) *EventLogger {
	return &EventLogger{
		logger:  logger,
		journal: journal,
	}
}

func (l *EventLogger) Log(category Category, msg string, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+1)
	all = append(all, zap.String(CategoryKey, string(category)))
	all = append(all, fields...)

	if ce := l.logger.Check(category.Level(), msg); ce != nil {
		ce.Write(all...)
	}

	if l.journal != nil {
		l.journal.Add(Record{
			Timestamp: time.Now().UTC(),
			Category:  category,
			Message:   msg,
		})
	}
}
