// internal/ui/run.go
package ui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Launcher shows the menu until the user starts the bot or exits.
type Launcher struct {
	envPath string
	logger  *zap.Logger
	opts    []tea.ProgramOption
}

func NewLauncher(envPath string, logger *zap.Logger, opts ...tea.ProgramOption) *Launcher {
	return &Launcher{
		envPath: envPath,
		logger:  logger.Named("ui"),
		opts:    opts,
	}
}

// Run returns ChoiceStart or ChoiceExit.
func (l *Launcher) Run() (Choice, error) {
	for {
		final, err := l.program(NewMenuModel())
		if err != nil {
			return ChoiceNone, err
		}

		choice := final.(MenuModel).Choice()
		switch choice {
		case ChoiceEditConfig:
			if err := l.editConfig(); err != nil {
				l.logger.Error("Config editor failed", zap.Error(err))
			}
		case ChoiceStart:
			return ChoiceStart, nil
		default:
			return ChoiceExit, nil
		}
	}
}

func (l *Launcher) editConfig() error {
	editor, err := NewEditorModel(l.envPath)
	if err != nil {
		return err
	}
	final, err := l.program(editor)
	if err != nil {
		return err
	}
	if m := final.(EditorModel); m.Saved() {
		l.logger.Info("Configuration saved", zap.String("path", l.envPath))
	}
	return nil
}

// program runs one bubbletea program and converts a panic into an error.
func (l *Launcher) program(model tea.Model) (final tea.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("UI panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			err = fmt.Errorf("UI panic: %v", r)
		}
	}()

	final, err = tea.NewProgram(model, l.opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("UI error: %w", err)
	}
	return final, nil
}
