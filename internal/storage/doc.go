// Package storage defines the credential persistence contract.
//
// Implementations:
//
//   - memory: in-memory store backed by a concurrent map, used for
//     tests and ephemeral deployments
//   - badgerstore: Badger-backed durable store with background GC
//
// All implementations return domain errors (ErrCredentialNotFound,
// ErrCredentialConflict) so callers never depend on backend details.
package storage
