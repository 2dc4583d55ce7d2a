//go:build windows

package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

const (
	valueInterface1 = "Interface1"
	valueInterface2 = "Interface2"
)

// RegistryStore keeps the selection under a key of HKEY_CURRENT_USER.
type RegistryStore struct {
	key string
}

// NewRegistryStore creates a store for the given HKCU subkey.
func NewRegistryStore(key string) (*RegistryStore, error) {
	return &RegistryStore{key: key}, nil
}

func (s *RegistryStore) Load(ctx context.Context) (string, string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, s.key, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: opening HKCU\\%s: %w", entities.ErrPersistenceFailure, s.key, err)
	}
	defer k.Close()

	nameA, err := readString(k, valueInterface1)
	if err != nil {
		return "", "", err
	}
	nameB, err := readString(k, valueInterface2)
	if err != nil {
		return "", "", err
	}
	return nameA, nameB, nil
}

func readString(k registry.Key, name string) (string, error) {
	value, _, err := k.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", entities.ErrPersistenceFailure, name, err)
	}
	return value, nil
}

func (s *RegistryStore) Save(ctx context.Context, nameA, nameB string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, s.key, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("%w: creating HKCU\\%s: %w", entities.ErrPersistenceFailure, s.key, err)
	}
	defer k.Close()

	if err := k.SetStringValue(valueInterface1, nameA); err != nil {
		return fmt.Errorf("%w: writing %s: %w", entities.ErrPersistenceFailure, valueInterface1, err)
	}
	if err := k.SetStringValue(valueInterface2, nameB); err != nil {
		return fmt.Errorf("%w: writing %s: %w", entities.ErrPersistenceFailure, valueInterface2, err)
	}
	return nil
}

func (s *RegistryStore) Close() error {
	return nil
}

func defaultBackend() string {
	return BackendRegistry
}
