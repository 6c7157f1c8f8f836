// internal/logger/pretty.go
package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
)

func categoryColor(c Category) string {
	switch c {
	case CategoryBuy:
		return ColorGreen
	case CategorySell:
		return ColorYellow
	case CategoryCheck:
		return ColorCyan
	case CategoryError:
		return ColorRed
	case CategoryFatal:
		return ColorRed + ColorBold
	case CategoryInfo:
		return ColorBlue
	default:
		return ColorWhite
	}
}

// PrettyEncoder creates the colorized console encoder.
func PrettyEncoder() zapcore.Encoder {
	config := zapcore.EncoderConfig{
		MessageKey:     "msg",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return zapcore.NewConsoleEncoder(config)
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.UTC().Format(time.RFC3339) + "]")
}

// FormatMessage renders "[LABEL] message" in the category's color.
func FormatMessage(category Category, msg string) string {
	label := "[" + strings.ToUpper(string(category)) + "]"
	return fmt.Sprintf("%s%s %s%s", categoryColor(category), label, msg, ColorReset)
}

// CategoryCore rewrites entries for display: the category becomes a colored
// label and every other field is dropped.
type CategoryCore struct {
	core     zapcore.Core
	category Category
}

// NewCategoryCore wraps a console core.
func NewCategoryCore(core zapcore.Core) *CategoryCore {
	return &CategoryCore{core: core}
}

func (c *CategoryCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *CategoryCore) With(fields []zapcore.Field) zapcore.Core {
	category := c.category
	if cat, ok := findCategory(fields); ok {
		category = cat
	}
	return &CategoryCore{core: c.core, category: category}
}

func (c *CategoryCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *CategoryCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	category := c.category
	if cat, ok := findCategory(fields); ok {
		category = cat
	}
	if category == "" {
		category = CategoryInfo
		if entry.Level >= zapcore.ErrorLevel {
			category = CategoryError
		}
	}

	clean := entry
	clean.Message = FormatMessage(category, entry.Message)
	return c.core.Write(clean, nil)
}

func (c *CategoryCore) Sync() error {
	return c.core.Sync()
}

func findCategory(fields []zapcore.Field) (Category, bool) {
	for _, f := range fields {
		if f.Key == CategoryKey && f.Type == zapcore.StringType {
			return Category(f.String), true
		}
	}
	return "", false
}
