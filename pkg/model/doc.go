// Package model defines the database models for the OAuth gateway.
//
// This package contains GORM models mapping to the gateway's PostgreSQL
// schema.
//
// # Core Models
//
//   - User: local accounts linked to upstream identities (GitHub, QQ)
//   - Client: service clients for the client-credentials flow
//
// # Database Schema
//
//   - users: one row per (provider, subject) pair
//   - clients: registered service clients with encrypted secrets
package model
