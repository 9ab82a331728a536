package tui

import (
	"strings"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/cli/users"
	"user-mgmt-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveTokenFunc persists a session token after login.
type SaveTokenFunc func(token string) error

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	// Shared dependencies
	client    *client.Client
	saveToken SaveTokenFunc

	// Session state
	user     *models.User
	showHelp bool

	// Current active flow (when nil, we are in the main menu)
	current tea.Model
}

// NewRootModel constructs the root app-shell model that can launch multiple flows.
func NewRootModel(apiClient *client.Client, saveToken SaveTokenFunc) tea.Model {
	if saveToken == nil {
		saveToken = func(string) error { return nil }
	}
	return &rootModel{
		client:    apiClient,
		saveToken: saveToken,
	}
}

// IsDelegating reports whether a flow is active.
func (m *rootModel) IsDelegating() bool {
	return m.current != nil
}

func (m *rootModel) Init() tea.Cmd {
	// No async work on start; just render the menu.
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MenuNavigationMsg:
		m.current = nil
		return m, nil
	case loggedInMsg:
		m.client = m.client.WithToken(msg.token)
		m.user = msg.user
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "?":
			m.showHelp = true
			return m, nil

		case "1":
			m.current = NewLoginForm(m.client, m.saveToken)
			return m, m.current.Init()

		case "2":
			m.current = NewListUsersModel(m.client)
			return m, m.current.Init()
		}
	}

	return m, nil
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("User Management"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(RootMenuHelpContent())
		b.WriteString("\n" + helpStyle.Render("Press any key to close help.") + "\n")
		return b.String()
	}

	if m.user != nil {
		b.WriteString(mutedStyle.Render("Logged in as "+users.DisplayName(*m.user)) + "\n\n")
	}
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Log in\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " List users\n")
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press the number of an option, '?' for help, or 'q' / Esc to quit.") + "\n")

	return b.String()
}
