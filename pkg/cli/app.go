package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"user-mgmt-go/pkg/cli/client"
	"user-mgmt-go/pkg/cli/logger"
	"user-mgmt-go/pkg/cli/tui"
	"user-mgmt-go/pkg/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
)

type App struct {
	cfg    *config.Config
	client *client.Client
	out    io.Writer
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
		out: os.Stdout,
	}
}

// getClient returns the HTTP client, creating it if necessary. The saved
// session token is attached when present.
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.BaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}

	a.client = client.NewClient(a.cfg.CLI.BaseURL, a.cfg.CLI.Token, client.WithTimeout(a.cfg.CLITimeout()))
	return a.client, nil
}

// requireToken fails early for commands that need a logged-in session
func (a *App) requireToken() error {
	if a.cfg.CLI.Token == "" {
		return fmt.Errorf("not logged in; run with -login first")
	}
	return nil
}

// saveToken stores a session token in the config file and rebinds the client
func (a *App) saveToken(token string) error {
	a.cfg.CLI.Token = token
	if err := config.Save(a.cfg); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if a.client != nil {
		a.client = a.client.WithToken(token)
	}
	return nil
}

// ShowConfig displays the current configuration
func (a *App) ShowConfig() error {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "cli.base_url=http://localhost:8080")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	if err := a.cfg.Set(parts[0], parts[1]); err != nil {
		return err
	}
	return config.Save(a.cfg)
}

// Run starts the interactive TUI
func (a *App) Run() error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	defer logger.CloseLog()

	model := tui.NewRootModel(apiClient, a.saveToken)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.LogError(err, "tui exited")
		return err
	}
	return nil
}
