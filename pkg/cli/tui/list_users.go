package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/cli/logger"
	"user-mgmt-go/pkg/cli/users"
	"user-mgmt-go/pkg/models"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const listPageSize = client.DefaultPageSize

// listUsersModel loads users one page at a time and shows them in a table.
type listUsersModel struct {
	client *client.Client

	table   table.Model
	page    *models.Page[models.User]
	pageNum int
	err     error
	loading bool
}

// NewListUsersModel creates the paged user list flow.
func NewListUsersModel(c *client.Client) tea.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Username", Width: 18},
		{Title: "Name", Width: 18},
		{Title: "Email", Width: 28},
		{Title: "Tel", Width: 13},
		{Title: "State", Width: 9},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(listPageSize+1),
	)
	t.SetStyles(tableStyles())

	model := &listUsersModel{
		client:  c,
		table:   t,
		pageNum: 1,
		loading: true,
	}

	return NewViewportWrapper(model, ViewportConfig{
		Title:       "Users",
		ShowHeader:  true,
		ShowFooter:  true,
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: ListUsersHelpContent,
	})
}

func (m *listUsersModel) Init() tea.Cmd {
	return m.load(m.pageNum)
}

func (m *listUsersModel) load(pageNum int) tea.Cmd {
	m.loading = true
	api := m.client.Users()
	params := models.UserQueryParams{Start: pageNum, Limit: listPageSize}
	return func() tea.Msg {
		res, err := api.QueryUsers(context.Background(), params)
		if err != nil {
			return usersLoadedMsg{err: err}
		}
		if !res.OK() {
			return usersLoadedMsg{err: fmt.Errorf("%s", res.Message)}
		}
		return usersLoadedMsg{page: &res.Data}
	}
}

func (m *listUsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			logger.LogError(msg.err, "failed to load users")
			m.err = userFacingError(msg.err)
			return m, nil
		}
		m.err = nil
		m.page = msg.page
		m.pageNum = msg.page.PageNum
		m.table.SetRows(userRows(msg.page.List))
		m.table.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "n", "right":
			if m.page != nil && m.pageNum < m.page.Pages {
				return m, m.load(m.pageNum + 1)
			}
			return m, nil
		case "p", "left":
			if m.pageNum > 1 {
				return m, m.load(m.pageNum - 1)
			}
			return m, nil
		case "r":
			return m, m.load(m.pageNum)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func userRows(list []models.User) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, u := range list {
		rows = append(rows, table.Row{
			strconv.FormatInt(u.UserID, 10),
			u.Username,
			users.DisplayName(u),
			u.Email,
			u.Tel,
			users.StateLabel(u.State),
		})
	}
	return rows
}

func (m *listUsersModel) View() string {
	if m.err != nil {
		return "\n" + renderInlineError(m.err) + "\n\n" +
			helpStyle.Render("Press 'r' to retry or 'm' for menu.") + "\n"
	}
	if m.page == nil {
		return renderLoadingState("Loading users...")
	}
	if len(m.page.List) == 0 {
		return "\n" + mutedStyle.Render("No users found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	status := fmt.Sprintf("Page %d of %d • %d user(s)", m.page.PageNum, m.page.Pages, m.page.Total)
	if m.loading {
		status += " • loading..."
	}
	b.WriteString(mutedStyle.Render(status) + "\n")
	b.WriteString(helpStyle.Render("n/→ next page • p/← previous page • r reload") + "\n")
	return b.String()
}
