package style

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Success
	Red     = lipgloss.Color("#FF5555") // Errors

	Base03 = lipgloss.Color("#1B1D23") // Background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:    Cyan,
		Secondary:  Magenta,
		Success:    Green,
		Error:      Red,
		Warning:    Yellow,
		Background: Base03,
		Text:       Base2,
		TextMuted:  Base01,
	}
}

// Styles are the rendered styles shared by the menu and the editor.
type Styles struct {
	Banner   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Label    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Box      lipgloss.Style
}

func DefaultStyles() Styles {
	p := DefaultPalette()
	return Styles{
		Banner: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Item: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 2),
		Selected: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Primary).
			Padding(0, 2).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Width(24),
		Help: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 3),
	}
}
