// internal/ui/menu.go
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/pump-sniper/internal/ui/style"
)

// Choice is the action picked in the main menu.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceStart
	ChoiceEditConfig
	ChoiceExit
)

func (c Choice) String() string {
	switch c {
	case ChoiceStart:
		return "Start"
	case ChoiceEditConfig:
		return "Edit Config"
	case ChoiceExit:
		return "Exit"
	default:
		return "None"
	}
}

var bannerLines = []string{
	` ____                                   _                 `,
	`|  _ \ _   _ _ __ ___  _ __    ___ _ __ (_)_ __   ___ _ __ `,
	"| |_) | | | | '_ ` _ \\| '_ \\  / __| '_ \\| | '_ \\ / _ \\ '__|",
	`|  __/| |_| | | | | | | |_) | \__ \ | | | | |_) |  __/ |   `,
	`|_|    \__,_|_| |_| |_| .__/  |___/_| |_|_| .__/ \___|_|   `,
	`                      |_|                 |_|              `,
	``,
	`                 Free pump.fun sniper!`,
}

// Banner returns the ASCII banner shown above the menu.
func Banner() string {
	return strings.Join(bannerLines, "\n")
}

var menuChoices = []Choice{ChoiceStart, ChoiceEditConfig, ChoiceExit}

// MenuModel is the Start / Edit Config / Exit menu.
type MenuModel struct {
	keyMap   KeyMap
	styles   style.Styles
	selected int
	choice   Choice
}

func NewMenuModel() MenuModel {
	return MenuModel{
		keyMap: DefaultKeyMap(),
		styles: style.DefaultStyles(),
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Quit), key.Matches(keyMsg, m.keyMap.Back), key.Matches(keyMsg, m.keyMap.Exit):
		m.choice = ChoiceExit
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.Up):
		m.selected = (m.selected - 1 + len(menuChoices)) % len(menuChoices)
	case key.Matches(keyMsg, m.keyMap.Down), key.Matches(keyMsg, m.keyMap.Tab):
		m.selected = (m.selected + 1) % len(menuChoices)
	case key.Matches(keyMsg, m.keyMap.Enter):
		m.choice = menuChoices[m.selected]
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.Start):
		m.choice = ChoiceStart
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.EditConfig):
		m.choice = ChoiceEditConfig
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Banner.Render(Banner()))
	b.WriteString("\n\n")

	items := make([]string, 0, len(menuChoices))
	for i, c := range menuChoices {
		if i == m.selected {
			items = append(items, m.styles.Selected.Render(c.String()))
		} else {
			items = append(items, m.styles.Item.Render(c.String()))
		}
	}
	b.WriteString(m.styles.Box.Render(strings.Join(items, "\n")))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(renderHelp(m.keyMap.MenuHelp())))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the picked action, ChoiceNone until one is made.
func (m MenuModel) Choice() Choice {
	return m.choice
}
