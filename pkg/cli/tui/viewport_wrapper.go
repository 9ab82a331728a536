package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewportWrapper adds a header, footer, help overlay and menu/quit keys
// around a flow model.
type ViewportWrapper struct {
	model    tea.Model
	viewport viewport.Model
	width    int
	height   int
	config   ViewportConfig

	showHelp    bool
	helpContent string
}

// ViewportConfig configures the wrapper behavior
type ViewportConfig struct {
	Title       string
	ShowHeader  bool
	ShowFooter  bool
	UseViewport bool          // Enable scrolling (false = simple responsive)
	EnableHelp  bool          // '?' toggles help
	EnableMenu  bool          // 'm' returns to menu
	HelpContent func() string // Function to generate help text
}

// NewViewportWrapper creates a new wrapper around a model
func NewViewportWrapper(model tea.Model, config ViewportConfig) *ViewportWrapper {
	return &ViewportWrapper{
		model:    model,
		viewport: viewport.New(0, 0),
		config:   config,
		width:    80, // Default
		height:   24, // Default
	}
}

func (w *ViewportWrapper) Init() tea.Cmd {
	if w.model == nil {
		return nil
	}
	return w.model.Init()
}

func (w *ViewportWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = size.Width
		w.height = size.Height
		w.calculateLayout()
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		// While help is showing, any of these keys only closes it
		if w.showHelp {
			switch key.String() {
			case "ctrl+c":
				return w, tea.Quit
			case "?", "esc", "q":
				w.showHelp = false
			}
			return w, nil
		}

		switch key.String() {
		case "?":
			if w.config.EnableHelp {
				w.showHelp = true
				if w.config.HelpContent != nil {
					w.helpContent = w.config.HelpContent()
				}
				return w, nil
			}
		case "m":
			if w.config.EnableMenu {
				return w, backToMenu
			}
		case "ctrl+c", "q", "esc":
			return w, tea.Quit
		}
	}

	var cmds []tea.Cmd
	if w.model != nil {
		var cmd tea.Cmd
		w.model, cmd = w.model.Update(msg)
		cmds = append(cmds, cmd)
	}
	if w.config.UseViewport {
		var cmd tea.Cmd
		w.viewport, cmd = w.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return w, tea.Batch(cmds...)
}

func (w *ViewportWrapper) View() string {
	if w.showHelp {
		return w.renderHelpOverlay()
	}

	content := ""
	if w.model != nil {
		content = w.model.View()
	}

	if w.config.UseViewport {
		w.calculateLayout()
		w.viewport.SetContent(content)
		content = w.viewport.View()
	}

	var parts []string
	if w.config.ShowHeader {
		parts = append(parts, w.renderHeader())
	}
	parts = append(parts, content)
	if w.config.ShowFooter {
		parts = append(parts, w.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (w *ViewportWrapper) calculateLayout() {
	headerH, footerH := 0, 0
	if w.config.ShowHeader {
		headerH = 2
	}
	if w.config.ShowFooter {
		footerH = 1
	}

	contentH := w.height - headerH - footerH
	if contentH < 1 {
		contentH = 1
	}
	w.viewport.Width = w.width
	w.viewport.Height = contentH
}

func (w *ViewportWrapper) renderHeader() string {
	var b strings.Builder

	if w.config.Title != "" {
		b.WriteString(renderTitle(w.config.Title))
	}

	// Navigation hint
	if w.config.EnableMenu && w.config.EnableHelp {
		b.WriteString(helpStyle.Render("Press 'm' for menu, '?' for help") + "\n")
	} else if w.config.EnableHelp {
		b.WriteString(helpStyle.Render("Press '?' for help") + "\n")
	} else if w.config.EnableMenu {
		b.WriteString(helpStyle.Render("Press 'm' for menu") + "\n")
	}

	return b.String()
}

func (w *ViewportWrapper) renderFooter() string {
	shortcuts := []string{}

	if w.config.EnableHelp {
		shortcuts = append(shortcuts, "? help")
	}
	if w.config.EnableMenu {
		shortcuts = append(shortcuts, "m menu")
	}
	shortcuts = append(shortcuts, "q quit")

	return helpStyle.Render(strings.Join(shortcuts, " • "))
}

func (w *ViewportWrapper) renderHelpOverlay() string {
	helpText := w.helpContent
	if helpText == "" {
		helpText = "No help available"
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	title := titleStyle.Render("Keyboard Shortcuts")
	closeHint := helpStyle.Render("Press '?' or Esc to close")

	return overlayStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", helpText, "", closeHint),
	)
}
