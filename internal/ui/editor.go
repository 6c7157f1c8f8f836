// internal/ui/editor.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/pump-sniper/internal/config"
	"github.com/rovshanmuradov/pump-sniper/internal/ui/style"
)

// secretKeys are masked while editing.
var secretKeys = map[string]bool{
	"WALLET_PRIVATE_KEY": true,
	"REDIS_PASSWORD":     true,
}

// EditorModel edits the dotenv file one key per field.
type EditorModel struct {
	path   string
	keys   []string
	inputs []textinput.Model
	focus  int
	keyMap KeyMap
	styles style.Styles

	saved bool
	err   error
}

// NewEditorModel loads the current values from path.
func NewEditorModel(path string) (EditorModel, error) {
	values, err := config.ReadValues(path)
	if err != nil {
		return EditorModel{}, err
	}

	m := EditorModel{
		path:   path,
		keys:   config.Keys,
		inputs: make([]textinput.Model, len(config.Keys)),
		keyMap: DefaultKeyMap(),
		styles: style.DefaultStyles(),
	}
	for i, k := range m.keys {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 60
		ti.SetValue(values[k])
		if secretKeys[k] {
			ti.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m, nil
}

func (m EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keyMap.Quit), key.Matches(keyMsg, m.keyMap.Back):
			return m, tea.Quit
		case key.Matches(keyMsg, m.keyMap.Save):
			m.err = config.SaveValues(m.path, m.Values())
			m.saved = m.err == nil
			if m.saved {
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(keyMsg, m.keyMap.Tab), keyMsg.Type == tea.KeyDown, keyMsg.Type == tea.KeyEnter:
			return m, m.setFocus(m.focus + 1)
		case key.Matches(keyMsg, m.keyMap.ShiftTab), keyMsg.Type == tea.KeyUp:
			return m, m.setFocus(m.focus - 1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *EditorModel) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = (i%n + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m EditorModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Banner.Render("Edit Config"))
	b.WriteString(fmt.Sprintf("  %s\n\n", m.path))

	for i, k := range m.keys {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(m.styles.Label.Render(k))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(renderHelp(m.keyMap.EditorHelp())))
	b.WriteString("\n")
	return b.String()
}

// Values returns the current field values keyed by config key.
func (m EditorModel) Values() map[string]string {
	out := make(map[string]string, len(m.keys))
	for i, k := range m.keys {
		out[k] = strings.TrimSpace(m.inputs[i].Value())
	}
	return out
}

// Saved reports whether the last save succeeded.
func (m EditorModel) Saved() bool {
	return m.saved
}

// Err returns the last save error.
func (m EditorModel) Err() error {
	return m.err
}
