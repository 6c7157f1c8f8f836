package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func press(m tea.Model, msgs ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestMenu_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want Choice
	}{
		{"enter on first item", []tea.KeyMsg{{Type: tea.KeyEnter}}, ChoiceStart},
		{"down then enter", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, ChoiceEditConfig},
		{"up wraps to exit", []tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyEnter}}, ChoiceExit},
		{"shortcut 2", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("2")}}, ChoiceEditConfig},
		{"q exits", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("q")}}, ChoiceExit},
		{"esc exits", []tea.KeyMsg{{Type: tea.KeyEsc}}, ChoiceExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(NewMenuModel(), tt.keys...)
			assert.Equal(t, tt.want, m.(MenuModel).Choice())
			assert.NotNil(t, cmd)
		})
	}
}

func TestMenu_NoChoiceYet(t *testing.T) {
	m, cmd := press(NewMenuModel(), tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, ChoiceNone, m.(MenuModel).Choice())
	assert.Nil(t, cmd)
}

func TestMenu_View(t *testing.T) {
	view := NewMenuModel().View()
	assert.Contains(t, view, "Free pump.fun sniper!")
	assert.Contains(t, view, "Start")
	assert.Contains(t, view, "Edit Config")
	assert.Contains(t, view, "Exit")
}
