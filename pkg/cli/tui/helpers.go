package tui

import (
	"errors"
	"fmt"
	"strings"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/cli/users"
	"user-mgmt-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

// backToMenu is a command returning control to the root menu
func backToMenu() tea.Msg {
	return MenuNavigationMsg{}
}

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return "\n" + infoStyle.Render(message) + "\n"
}

// renderUserDetails renders the main fields of a user
func renderUserDetails(u *models.User) string {
	if u == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(fieldLabelStyle.Render("ID:"))
	b.WriteString(fmt.Sprintf(" %s\n", userIDStyle.Render(fmt.Sprint(u.UserID))))
	b.WriteString(fieldLabelStyle.Render("Username:"))
	b.WriteString(fmt.Sprintf(" %s\n", u.Username))
	b.WriteString(fieldLabelStyle.Render("Name:"))
	b.WriteString(fmt.Sprintf(" %s\n", users.DisplayName(*u)))
	if u.Email != "" {
		b.WriteString(fieldLabelStyle.Render("Email:"))
		b.WriteString(fmt.Sprintf(" %s\n", u.Email))
	}
	b.WriteString(fieldLabelStyle.Render("Last login:"))
	b.WriteString(fmt.Sprintf(" %s\n", users.FormatDate(u.LoginTime)))
	return b.String()
}

// renderSuccessWithDetails renders a success message with user details
func renderSuccessWithDetails(message string, u *models.User) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(renderSuccess(message))
	b.WriteString("\n\n")
	b.WriteString(renderUserDetails(u))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press any key to return to the menu...") + "\n")
	return b.String()
}

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(err.Error())
}

// userFacingError converts API errors into friendly messages,
// while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	if client.IsUnauthorized(err) {
		return errors.New("not logged in or session expired; log in first")
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("server error (%d): %s", apiErr.StatusCode, apiErr.Message)
	}
	return err
}
