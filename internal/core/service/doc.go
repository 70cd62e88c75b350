// Package service provides domain services for RelayMesh.
//
// This package implements the application core:
//
//   - auth.go: credential validation and login rate limiting
//   - token.go: signed session token issuance and verification
//   - relay.go: channel registration and message distribution
//
// Services depend on storage only through narrow repository
// interfaces so backends can be swapped without touching the core.
package service
