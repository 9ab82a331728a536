package tui

import "user-mgmt-go/pkg/models"

// MenuNavigationMsg asks the root model to return to the main menu
type MenuNavigationMsg struct{}

// loginDoneMsg is emitted when a login request completes
type loginDoneMsg struct {
	res *models.Result[models.LoginResponse]
	err error
}

// loggedInMsg is emitted once the session token has been saved
type loggedInMsg struct {
	token string
	user  *models.User
}

// usersLoadedMsg is emitted when a page of users has been fetched
type usersLoadedMsg struct {
	page *models.Page[models.User]
	err  error
}
