package tui

import (
	"context"
	"errors"
	"strings"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/cli/logger"
	"user-mgmt-go/pkg/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	loginStepInput = iota
	loginStepSubmitting
	loginStepDone
)

// loginForm collects credentials and opens a session.
type loginForm struct {
	client    *client.Client
	saveToken SaveTokenFunc

	inputs  []textinput.Model
	focused int
	step    int
	err     error
	user    *models.User
}

// NewLoginForm creates the username/password login flow.
func NewLoginForm(c *client.Client, saveToken SaveTokenFunc) tea.Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 40
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &loginForm{
		client:    c,
		saveToken: saveToken,
		inputs:    []textinput.Model{username, password},
	}
}

func (m *loginForm) Init() tea.Cmd {
	return textinput.Blink
}

func (m *loginForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		return m, m.handleResult(msg)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.step {
		case loginStepDone:
			return m, backToMenu
		case loginStepSubmitting:
			return m, nil
		}

		switch key {
		case "esc":
			return m, backToMenu
		case "tab", "down":
			return m, m.focus(m.focused + 1)
		case "shift+tab", "up":
			return m, m.focus(m.focused - 1)
		case "enter":
			if m.focused < len(m.inputs)-1 {
				return m, m.focus(m.focused + 1)
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *loginForm) focus(i int) tea.Cmd {
	if i < 0 {
		i = len(m.inputs) - 1
	}
	m.focused = i % len(m.inputs)
	for j := range m.inputs {
		if j == m.focused {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return textinput.Blink
}

func (m *loginForm) submit() tea.Cmd {
	req := models.LoginRequest{
		Username: strings.TrimSpace(m.inputs[0].Value()),
		Password: m.inputs[1].Value(),
	}
	if req.Username == "" || req.Password == "" {
		m.err = errors.New("username and password are required")
		return nil
	}

	m.err = nil
	m.step = loginStepSubmitting
	api := m.client.Users()
	return func() tea.Msg {
		res, err := api.Login(context.Background(), req)
		return loginDoneMsg{res: res, err: err}
	}
}

func (m *loginForm) handleResult(msg loginDoneMsg) tea.Cmd {
	m.step = loginStepInput
	if msg.err != nil {
		logger.LogError(msg.err, "login failed")
		m.err = userFacingError(msg.err)
		return nil
	}
	if !msg.res.OK() {
		m.err = errors.New(msg.res.Message)
		return nil
	}

	token := msg.res.Data.Token
	if err := m.saveToken(token); err != nil {
		logger.LogError(err, "failed to save token")
		m.err = err
		return nil
	}

	m.step = loginStepDone
	m.user = msg.res.Data.User
	user := m.user
	return func() tea.Msg {
		return loggedInMsg{token: token, user: user}
	}
}

func (m *loginForm) View() string {
	switch m.step {
	case loginStepDone:
		return renderSuccessWithDetails("Logged in; session token saved", m.user)
	case loginStepSubmitting:
		return renderLoadingState("Logging in...")
	}

	var b strings.Builder
	b.WriteString(renderTitle("Log in"))
	b.WriteString(fieldLabelStyle.Render("Username:") + "\n")
	b.WriteString(m.inputs[0].View() + "\n\n")
	b.WriteString(fieldLabelStyle.Render("Password:") + "\n")
	b.WriteString(m.inputs[1].View() + "\n\n")

	if m.err != nil {
		b.WriteString(renderInlineError(m.err) + "\n\n")
	}
	b.WriteString(helpStyle.Render("Tab to switch fields • Enter to submit • Esc to go back") + "\n")
	return b.String()
}
