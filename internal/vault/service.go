package vault

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/models"
)

// Service provides save/load/delete of credential records against a
// SecretStore, keyed "<kind>:<profile>". Records are stored as JSON.
// No retry and no fallback storage: the first error surfaces to the
// caller. Concurrent writers to the same key race at the storage layer,
// last-write-wins.
type Service struct {
	store  SecretStore
	logger arbor.ILogger
}

// NewService creates a credential vault service on the given backend
func NewService(store SecretStore, logger arbor.ILogger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// SaveCredentials stores session credentials for a profile
func (s *Service) SaveCredentials(profileName string, creds *models.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	return s.save(KindProfile, profileName, creds)
}

// LoadCredentials retrieves session credentials for a profile
func (s *Service) LoadCredentials(profileName string) (*models.Credentials, error) {
	var creds models.Credentials
	if err := s.load(KindProfile, profileName, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// DeleteCredentials removes session credentials for a profile
func (s *Service) DeleteCredentials(profileName string) error {
	return s.delete(KindProfile, profileName)
}

// SaveLogin stores username/password credentials for a profile
func (s *Service) SaveLogin(profileName string, creds *models.LoginCredentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	return s.save(KindLogin, profileName, creds)
}

// LoadLogin retrieves username/password credentials for a profile
func (s *Service) LoadLogin(profileName string) (*models.LoginCredentials, error) {
	var creds models.LoginCredentials
	if err := s.load(KindLogin, profileName, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// DeleteLogin removes username/password credentials for a profile
func (s *Service) DeleteLogin(profileName string) error {
	return s.delete(KindLogin, profileName)
}

// SaveAppToken stores app-token credentials for a profile
func (s *Service) SaveAppToken(profileName string, creds *models.AppTokenCredentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	return s.save(KindAppToken, profileName, creds)
}

// LoadAppToken retrieves app-token credentials for a profile
func (s *Service) LoadAppToken(profileName string) (*models.AppTokenCredentials, error) {
	var creds models.AppTokenCredentials
	if err := s.load(KindAppToken, profileName, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// DeleteAppToken removes app-token credentials for a profile
func (s *Service) DeleteAppToken(profileName string) error {
	return s.delete(KindAppToken, profileName)
}

func (s *Service) save(kind Kind, profileName string, record interface{}) error {
	if profileName == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize %s credentials: %w", kind, err)
	}

	if err := s.store.Set(entryKey(kind, profileName), string(data)); err != nil {
		return fmt.Errorf("failed to save %s credentials: %w", kind, err)
	}

	s.logger.Info().Str("profile", profileName).Str("kind", string(kind)).Msg("Stored credentials")
	return nil
}

func (s *Service) load(kind Kind, profileName string, record interface{}) error {
	if profileName == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	data, err := s.store.Get(entryKey(kind, profileName))
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("no %s credentials stored for profile %q: %w", kind, profileName, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s credentials: %w", kind, err)
	}

	if err := json.Unmarshal([]byte(data), record); err != nil {
		return fmt.Errorf("failed to deserialize %s credentials: %w", kind, err)
	}

	s.logger.Debug().Str("profile", profileName).Str("kind", string(kind)).Msg("Loaded credentials")
	return nil
}

func (s *Service) delete(kind Kind, profileName string) error {
	if profileName == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	err := s.store.Delete(entryKey(kind, profileName))
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("no %s credentials stored for profile %q: %w", kind, profileName, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s credentials: %w", kind, err)
	}

	s.logger.Info().Str("profile", profileName).Str("kind", string(kind)).Msg("Deleted credentials")
	return nil
}
