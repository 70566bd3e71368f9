// Package store provides storage abstractions for the OAuth gateway.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - UserStore: local users linked to upstream identities
//   - ClientStore: service clients for the client-credentials flow
//   - HealthStore: database connectivity checks
package store
