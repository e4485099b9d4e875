package vault

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringStore implements SecretStore on the OS-native keychain
// (Keychain on macOS, Credential Manager on Windows, Secret Service on
// Linux). Calls may block on OS-level prompts such as keychain unlock.
type keyringStore struct {
	serviceName string
}

// NewKeyringStore creates a SecretStore backed by the OS keychain under
// the given service namespace.
func NewKeyringStore(serviceName string) SecretStore {
	return &keyringStore{serviceName: serviceName}
}

func (s *keyringStore) Set(key, value string) error {
	if err := keyring.Set(s.serviceName, key, value); err != nil {
		return fmt.Errorf("failed to write keychain entry %s: %w", key, err)
	}
	return nil
}

func (s *keyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(s.serviceName, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keychain entry %s: %w", key, err)
	}
	return value, nil
}

func (s *keyringStore) Delete(key string) error {
	err := keyring.Delete(s.serviceName, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete keychain entry %s: %w", key, err)
	}
	return nil
}
