// Package badgerstore provides Badger-backed credential storage.
//
// This package implements storage.CredentialStore on Badger v3:
//
//   - store.go: CRUD over JSON-encoded credentials with a key prefix
//   - Background value-log GC loop
//   - slog adapter for Badger's internal logging
//
// Keys use the "cred:" prefix so other record types can share the
// same database in the future.
package badgerstore
