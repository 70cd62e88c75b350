// Package memory provides in-memory credential storage for RelayMesh.
//
// It implements storage.CredentialStore using a concurrent-safe sharded
// map. Data is not persisted across restarts; use badgerstore for
// durable deployments.
package memory
