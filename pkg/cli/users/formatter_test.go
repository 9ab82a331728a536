package users

import (
	"errors"
	"testing"
	"time"

	"user-mgmt-go/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", DisplayName(models.User{Username: "ann", Name: "Ann"}))
	assert.Equal(t, "ann", DisplayName(models.User{Username: "ann"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(nil))
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01 09:30", FormatDate(&ts))
}

func TestFormatTableOutput(t *testing.T) {
	assert.Equal(t, "No users found.\n", FormatTableOutput(models.NewPage[models.User](nil, 0, 1, 10)))

	page := models.NewPage([]models.User{
		{UserID: 2, Username: "bob", Email: "bob@example.com", State: models.StateEnabled, IsAdmin: models.AdminYes},
		{UserID: 1, Username: "ann", Name: "Ann", State: models.StateDisabled},
	}, 12, 1, 10)

	out := FormatTableOutput(page)
	assert.Contains(t, out, "Username")
	assert.Contains(t, out, "bob@example.com")
	assert.Contains(t, out, "disabled")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "Page 1 of 2 (12 user(s) total)")
}

func TestFormatSuccessMessage(t *testing.T) {
	assert.Equal(t, "✓ done\n", FormatSuccessMessage("done", nil))

	out := FormatSuccessMessage("Logged in", &models.User{UserID: 5, Username: "ann"})
	assert.Contains(t, out, "✓ Logged in")
	assert.Contains(t, out, "Username:   ann")
	assert.Contains(t, out, "Email:      -")
}

func TestFormatErrorMessage(t *testing.T) {
	assert.Equal(t, "❌ Error: boom\n", FormatErrorMessage(errors.New("boom")))
}
