package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"go.withmatt.com/paperdrop/internal/config"
	"go.withmatt.com/paperdrop/internal/paperless"
)

// RunSettings edits and saves the Paperless connection settings. The token is
// stored in the system keyring, never in the config file.
func RunSettings(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	serverURL := cfg.Paperless.URL
	token := cfg.Paperless.Token
	defaultTags := cfg.Paperless.DefaultTags
	testAfterSave := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Paperless server URL").
				Placeholder("https://paperless.example.com").
				Validate(validateServiceURL).
				Value(&serverURL),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewInput().
				Title("Default tags").
				Description("Comma-separated; preselected on every advanced upload").
				Placeholder("email, inbox").
				Value(&defaultTags),
			huh.NewConfirm().
				Title("Test connection after saving?").
				Affirmative("Yes").
				Negative("No").
				Value(&testAfterSave),
		),
	).WithProgramOptions(tea.WithAltScreen())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	cfg.Paperless.URL = config.NormalizeServiceURL(serverURL)
	cfg.Paperless.DefaultTags = strings.TrimSpace(defaultTags)
	cfg.Paperless.Token = strings.TrimSpace(token)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("unable to save config: %w", err)
	}
	if err := config.SaveToken(cfg.Paperless.Token); err != nil {
		return fmt.Errorf("unable to store token: %w", err)
	}
	fmt.Println("Settings saved.")

	if !testAfterSave {
		return nil
	}

	client := paperless.NewClient(cfg.Paperless.URL, cfg.Paperless.Token, nil)
	if !client.Configured() {
		fmt.Println("Connection not tested: server URL or token missing.")
		return nil
	}
	if client.TestConnection(ctx) {
		fmt.Println("Connection OK.")
	} else {
		fmt.Println("Connection failed: check the server URL and token.")
	}
	return nil
}

func validateServiceURL(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" {
		return errors.New("enter a full URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}
