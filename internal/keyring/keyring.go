package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	Service       = "zenith"
	SigningKeyKey = "jwt-secret"
)

var (
	// ErrNotFound is returned when no signing key is stored in the keyring
	ErrNotFound = errors.New("signing key not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetSigningKey retrieves the token signing key from the OS keyring.
func GetSigningKey() (string, error) {
	secret, err := keyring.Get(Service, SigningKeyKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func SetSigningKey(secret string) error {
	if secret == "" {
		return errors.New("signing key cannot be empty")
	}
	if err := keyring.Set(Service, SigningKeyKey, secret); err != nil {
		return fmt.Errorf("failed to store signing key in keyring: %w", err)
	}
	return nil
}

func DeleteSigningKey() error {
	err := keyring.Delete(Service, SigningKeyKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete signing key from keyring: %w", err)
	}
	return nil
}
