// Package audit provides security audit logging for the OAuth gateway.
//
// Events are written to stdout in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, persisted to the audit_messages table.
//
// # Event Types
//
//   - LoginEvent: end-user logins via upstream providers
//   - TokenRefreshEvent: refresh-token exchanges
//   - ServiceTokenEvent: client-credentials token issuance
package audit
