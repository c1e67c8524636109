package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "go.withmatt.com/paperdrop"
	keyringTokenID = "paperless-api-token"
)

// LoadToken reads the Paperless API token from the system keyring. A missing
// entry is not an error; it just means the service is unconfigured.
func LoadToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringTokenID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("unable to read token from keyring: %w", err)
	}
	return token, nil
}

// SaveToken stores the Paperless API token in the system keyring. An empty
// token removes the entry.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		if err := keyring.Delete(keyringService, keyringTokenID); err != nil &&
			!errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("unable to remove token from keyring: %w", err)
		}
		return nil
	}
	if err := keyring.Set(keyringService, keyringTokenID, token); err != nil {
		return fmt.Errorf("unable to store token in keyring: %w", err)
	}
	return nil
}
