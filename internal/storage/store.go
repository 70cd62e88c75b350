// Package storage defines the credential persistence contract.
package storage

import (
	"context"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
)

// CredentialStore stores login credentials keyed by identity.
type CredentialStore interface {
	// Get retrieves a credential by identity.
	// Returns domain.ErrCredentialNotFound if absent.
	Get(ctx context.Context, identity string) (*domain.Credential, error)

	// Create stores a new credential.
	// Returns domain.ErrCredentialConflict if the identity already exists.
	Create(ctx context.Context, cred *domain.Credential) error

	// Update replaces an existing credential.
	// Returns domain.ErrCredentialNotFound if absent.
	Update(ctx context.Context, cred *domain.Credential) error

	// Delete removes a credential by identity.
	// Returns domain.ErrCredentialNotFound if absent.
	Delete(ctx context.Context, identity string) error

	// List returns all stored credentials ordered by identity.
	List(ctx context.Context) ([]*domain.Credential, error)

	// Count returns the number of stored credentials.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// SeedEntry is a credential to load into the store at startup.
// Either SecretHash (pre-hashed, preferred) or Secret (plaintext,
// hashed on load) must be set.
type SeedEntry struct {
	Identity   string
	Secret     string
	SecretHash string
	Scope      domain.Scope
}

// Seed inserts the given entries into the store, skipping identities
// that already exist. Used to bootstrap initial users from config.
func Seed(ctx context.Context, store CredentialStore, entries []SeedEntry) error {
	for _, e := range entries {
		hash := e.SecretHash
		if hash == "" {
			var err error
			hash, err = domain.HashSecret(e.Secret)
			if err != nil {
				return err
			}
		}

		cred := &domain.Credential{
			Identity:   e.Identity,
			SecretHash: hash,
			Scope:      e.Scope,
			CreatedAt:  time.Now().UnixMilli(),
		}
		if err := cred.Validate(); err != nil {
			return err
		}

		if err := store.Create(ctx, cred); err != nil {
			if domain.GetErrorCode(err) == domain.ErrCredentialConflict.Code {
				continue
			}
			return err
		}
	}
	return nil
}
