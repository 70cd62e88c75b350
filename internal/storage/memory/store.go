// Package memory provides in-memory credential storage for RelayMesh.
package memory

import (
	"context"
	"sort"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/pkg/cmap"
)

// Store provides in-memory credential storage.
type Store struct {
	creds *cmap.Map[*domain.Credential]
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		creds: cmap.New[*domain.Credential](),
	}
}

// Get retrieves a credential by identity.
func (s *Store) Get(_ context.Context, identity string) (*domain.Credential, error) {
	cred, ok := s.creds.Get(identity)
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}

	// Return a copy to prevent external modification.
	clone := *cred
	return &clone, nil
}

// Create stores a new credential.
func (s *Store) Create(_ context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	clone := *cred
	if !s.creds.SetIfAbsent(cred.Identity, &clone) {
		return domain.ErrCredentialConflict
	}
	return nil
}

// Update replaces an existing credential.
func (s *Store) Update(_ context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	if !s.creds.Has(cred.Identity) {
		return domain.ErrCredentialNotFound
	}

	clone := *cred
	s.creds.Set(cred.Identity, &clone)
	return nil
}

// Delete removes a credential by identity.
func (s *Store) Delete(_ context.Context, identity string) error {
	if _, ok := s.creds.Pop(identity); !ok {
		return domain.ErrCredentialNotFound
	}
	return nil
}

// List returns all stored credentials ordered by identity.
func (s *Store) List(_ context.Context) ([]*domain.Credential, error) {
	creds := make([]*domain.Credential, 0, s.creds.Count())
	s.creds.Range(func(_ string, cred *domain.Credential) bool {
		clone := *cred
		creds = append(creds, &clone)
		return true
	})

	sort.Slice(creds, func(i, j int) bool {
		return creds[i].Identity < creds[j].Identity
	})
	return creds, nil
}

// Count returns the number of stored credentials.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.creds.Count(), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
