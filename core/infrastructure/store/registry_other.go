//go:build !windows

package store

import (
	"context"
	"errors"
)

var errRegistryUnsupported = errors.New("registry backend is only available on Windows")

// RegistryStore is unavailable outside Windows.
type RegistryStore struct{}

func NewRegistryStore(key string) (*RegistryStore, error) {
	return nil, errRegistryUnsupported
}

func (s *RegistryStore) Load(ctx context.Context) (string, string, error) {
	return "", "", errRegistryUnsupported
}

func (s *RegistryStore) Save(ctx context.Context, nameA, nameB string) error {
	return errRegistryUnsupported
}

func (s *RegistryStore) Close() error {
	return nil
}

func defaultBackend() string {
	return BackendSQLite
}
