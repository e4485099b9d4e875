package vault

import (
	"errors"
	"fmt"
)

// Kind is a credential namespace within the vault. Kinds are independent:
// deleting one kind never affects another kind under the same profile.
type Kind string

const (
	// KindProfile stores session credentials
	KindProfile Kind = "profile"
	// KindLogin stores username/password records
	KindLogin Kind = "login"
	// KindAppToken stores app-token records
	KindAppToken Kind = "apptoken"
)

// ErrNotFound indicates no entry exists for the requested key.
// Both backends map their native not-found errors to this sentinel.
var ErrNotFound = errors.New("entry not found")

// SecretStore is a key-value secret backend holding one string value per
// key. The vault treats it as opaque storage for JSON blobs.
type SecretStore interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// entryKey builds the composite storage key for a kind and profile name
func entryKey(kind Kind, profileName string) string {
	return fmt.Sprintf("%s:%s", kind, profileName)
}
