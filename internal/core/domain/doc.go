// Package domain defines the core domain models for RelayMesh.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling: credentials, session
// tokens, channels, and messages, plus the structured error
// taxonomy shared by every layer above.
package domain
