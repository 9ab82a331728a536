// Package users renders account data for the command line.
package users

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"user-mgmt-go/pkg/models"
)

// DisplayName returns the user's name, or the username if no name is set
func DisplayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Truncate shortens s to maxLen characters
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatDate formats an optional time as a readable date string
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// StateLabel renders the account state flag
func StateLabel(state string) string {
	switch state {
	case models.StateEnabled:
		return "enabled"
	case models.StateDisabled:
		return "disabled"
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatTableOutput formats one page of users as a table
func FormatTableOutput(page models.Page[models.User]) string {
	if len(page.List) == 0 {
		return "No users found.\n"
	}

	var b strings.Builder
	b.WriteString("\nUsers\n")

	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tUsername\tName\tEmail\tTel\tState\tAdmin\tCreated")
	fmt.Fprintln(w, "──\t────────\t────\t─────\t───\t─────\t─────\t───────")
	for _, u := range page.List {
		admin := "no"
		if u.Admin() {
			admin = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.UserID,
			Truncate(u.Username, 24),
			Truncate(DisplayName(u), 24),
			Truncate(orDash(u.Email), 32),
			orDash(u.Tel),
			StateLabel(u.State),
			admin,
			FormatDate(u.CreateTime),
		)
	}
	w.Flush()

	b.WriteString(fmt.Sprintf("\nPage %d of %d (%d user(s) total)\n", page.PageNum, page.Pages, page.Total))
	return b.String()
}

// FormatUser formats the details of a single user
func FormatUser(u *models.User) string {
	if u == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  ID:         %d\n", u.UserID))
	b.WriteString(fmt.Sprintf("  Username:   %s\n", u.Username))
	b.WriteString(fmt.Sprintf("  Name:       %s\n", orDash(u.Name)))
	b.WriteString(fmt.Sprintf("  Email:      %s\n", orDash(u.Email)))
	b.WriteString(fmt.Sprintf("  Tel:        %s\n", orDash(u.Tel)))
	b.WriteString(fmt.Sprintf("  State:      %s\n", StateLabel(u.State)))
	b.WriteString(fmt.Sprintf("  Last login: %s\n", FormatDate(u.LoginTime)))
	b.WriteString(fmt.Sprintf("  Created:    %s\n", FormatDate(u.CreateTime)))
	return b.String()
}

// FormatSuccessMessage formats a success message, with user details when given
func FormatSuccessMessage(message string, u *models.User) string {
	var b strings.Builder
	b.WriteString("✓ " + message + "\n")
	if u != nil {
		b.WriteString("\n")
		b.WriteString(FormatUser(u))
	}
	return b.String()
}

// FormatErrorMessage formats an error message consistently
func FormatErrorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v\n", err)
}

// WriteToStderr writes formatted output to stderr
func WriteToStderr(content string) {
	fmt.Fprint(os.Stderr, content)
}
