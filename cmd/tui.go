package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"go.withmatt.com/paperdrop/internal/cache"
	"go.withmatt.com/paperdrop/internal/config"
	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/log"
	"go.withmatt.com/paperdrop/internal/oauth"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	if len(cfg.Accounts) == 0 {
		return errors.New("no accounts configured. Run 'paperdrop accounts' to add an account")
	}

	var clients []*gmail.Client
	var accountNames []string
	for _, account := range cfg.Accounts {
		srv, err := getGmailService(ctx, account.Email)
		if err != nil {
			return fmt.Errorf("unable to create Gmail service for %s: %w", account.Email, err)
		}
		clients = append(clients, gmail.NewClient(srv))
		accountNames = append(accountNames, account.Name)
	}

	docs := paperless.NewClient(cfg.Paperless.URL, cfg.Paperless.Token, nil)

	// A broken list cache only costs the offline fallback.
	lists, err := cache.Open()
	if err != nil {
		log.Printf("unable to open reference cache: %v", err)
		lists = nil
	}
	defer lists.Close()

	theme, err := config.ResolveTheme(cfg.Theme)
	if err != nil {
		return fmt.Errorf("unable to resolve theme: %w", err)
	}
	uiConfig := cfg.UI.WithDefaults()
	if err := tui.Run(
		ctx,
		clients,
		accountNames,
		docs,
		lists,
		cfg.Paperless.TagList(),
		cfg.Paperless.URL,
		theme,
		uiConfig,
	); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func getGmailService(ctx context.Context, email string) (*gmailapi.Service, error) {
	client, err := oauth.GetClient(ctx, email)
	if err != nil {
		return nil, err
	}

	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	return srv, nil
}
