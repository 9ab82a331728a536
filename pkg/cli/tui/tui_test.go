package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pagedServer serves 25 users, ten per page.
func pagedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		var list []models.User
		for i := (start - 1) * limit; i < start*limit && i < 25; i++ {
			list = append(list, models.User{UserID: int64(i + 1), Username: "user" + strconv.Itoa(i+1)})
		}
		_ = json.NewEncoder(w).Encode(models.Result[models.Page[models.User]]{
			Code: models.CodeSuccess,
			Data: models.NewPage(list, 25, start, limit),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRootMenuNavigation(t *testing.T) {
	root := NewRootModel(client.NewClient("http://localhost", ""), nil).(*rootModel)
	assert.Contains(t, root.View(), "User Management")

	_, cmd := root.Update(key("1"))
	assert.NotNil(t, cmd)
	require.True(t, root.IsDelegating())
	assert.Contains(t, root.View(), "Log in")

	root.Update(MenuNavigationMsg{})
	assert.False(t, root.IsDelegating())

	root.Update(key("?"))
	assert.Contains(t, root.View(), "List users (requires login)")
	root.Update(key("x"))
	assert.NotContains(t, root.View(), "requires login")
}

func TestRootTracksLogin(t *testing.T) {
	root := NewRootModel(client.NewClient("http://localhost", ""), nil).(*rootModel)
	root.Update(loggedInMsg{token: "tok", user: &models.User{Username: "ann", Name: "Ann"}})
	assert.Contains(t, root.View(), "Logged in as Ann")
}

func TestLoginForm(t *testing.T) {
	var saved string
	form := NewLoginForm(client.NewClient("http://localhost", ""), func(token string) error {
		saved = token
		return nil
	}).(*loginForm)

	// empty fields are rejected locally
	form.Update(key("enter"))
	form.Update(key("enter"))
	assert.Contains(t, form.View(), "username and password are required")

	form.Update(loginDoneMsg{res: &models.Result[models.LoginResponse]{Code: models.CodeError, Message: "wrong password"}})
	assert.Contains(t, form.View(), "wrong password")

	_, cmd := form.Update(loginDoneMsg{res: &models.Result[models.LoginResponse]{
		Code: models.CodeSuccess,
		Data: models.LoginResponse{Token: "tok", User: &models.User{Username: "ann"}},
	}})
	require.NotNil(t, cmd)
	assert.Equal(t, "tok", saved)
	assert.Equal(t, loggedInMsg{token: "tok", user: form.user}, cmd())
	assert.Contains(t, form.View(), "Logged in")

	_, cmd = form.Update(key("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, MenuNavigationMsg{}, cmd())
}

func TestLoginForm_TransportError(t *testing.T) {
	form := NewLoginForm(client.NewClient("http://localhost", ""), nil).(*loginForm)
	form.Update(loginDoneMsg{err: &client.APIError{StatusCode: http.StatusUnauthorized}})
	assert.Contains(t, form.View(), "session expired")

	form.Update(loginDoneMsg{err: errors.New("connection refused")})
	assert.Contains(t, form.View(), "connection refused")
}

func TestListUsersPaging(t *testing.T) {
	srv := pagedServer(t)
	wrapper := NewListUsersModel(client.NewClient(srv.URL, "tok")).(*ViewportWrapper)
	list := wrapper.model.(*listUsersModel)

	msg := wrapper.Init()()
	wrapper.Update(msg)
	require.NotNil(t, list.page)
	assert.Equal(t, 1, list.pageNum)
	assert.Equal(t, 3, list.page.Pages)
	assert.Len(t, list.table.Rows(), 10)
	assert.Contains(t, wrapper.View(), "Page 1 of 3")

	_, cmd := wrapper.Update(key("n"))
	require.NotNil(t, cmd)
	wrapper.Update(cmd())
	assert.Equal(t, 2, list.pageNum)
	assert.Equal(t, "11", list.table.Rows()[0][0])

	_, cmd = wrapper.Update(key("n"))
	wrapper.Update(cmd())
	assert.Equal(t, 3, list.pageNum)
	assert.Len(t, list.table.Rows(), 5)

	// no page past the last one
	_, cmd = wrapper.Update(key("n"))
	assert.Nil(t, cmd)

	_, cmd = wrapper.Update(key("p"))
	wrapper.Update(cmd())
	assert.Equal(t, 2, list.pageNum)
}

func TestListUsers_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"not logged in"}`))
	}))
	defer srv.Close()

	wrapper := NewListUsersModel(client.NewClient(srv.URL, "")).(*ViewportWrapper)
	wrapper.Update(wrapper.Init()())
	assert.Contains(t, wrapper.View(), "log in first")
}

func TestViewportWrapperKeys(t *testing.T) {
	wrapper := NewViewportWrapper(&listUsersModel{}, ViewportConfig{
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: ListUsersHelpContent,
	})

	wrapper.Update(key("?"))
	assert.Contains(t, wrapper.View(), "Keyboard Shortcuts")
	wrapper.Update(key("esc"))
	assert.NotContains(t, wrapper.View(), "Keyboard Shortcuts")

	_, cmd := wrapper.Update(key("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, MenuNavigationMsg{}, cmd())
}
