package logger

import (
	"go.uber.org/zap"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryInfo,
	CategoryBuy,
	CategorySell,
	CategoryCheck,
	CategoryError,
	CategoryFatal,
}

// Summary is a snapshot of what the session logged.
type Summary struct {
	Totals      map[Category]int
	FileLines   uint64
	FileFlushes uint64
	LastErrors  []Record
}

// Summary collects per-category totals, log file stats and up to lastErrors
// of the newest error records.
func (l *Logger) Summary(lastErrors int) Summary {
	s := Summary{Totals: make(map[Category]int, len(Categories))}
	for _, c := range Categories {
		s.Totals[c] = l.journal.Count(c)
	}
	s.FileLines, s.FileFlushes = l.file.GetStats()
	if lastErrors > 0 {
		s.LastErrors = l.journal.ByCategory(CategoryError, lastErrors)
	}
	return s
}

// Fields renders the totals and file stats as zap fields.
func (s Summary) Fields() []zap.Field {
	fields := make([]zap.Field, 0, len(Categories)+2)
	for _, c := range Categories {
		fields = append(fields, zap.Int(string(c), s.Totals[c]))
	}
	return append(fields,
		zap.Uint64("log_lines", s.FileLines),
		zap.Uint64("log_flushes", s.FileFlushes),
	)
}
