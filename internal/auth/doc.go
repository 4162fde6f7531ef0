// Package auth provides account registration, credential verification,
// and bearer token issuance for VoltGuard Core.
//
// It implements:
//   - Argon2id password hashing (OWASP recommendation)
//   - HS256 JWT bearer tokens carrying user id + email, valid 7 days
//   - A SQLite-backed user repository keyed by lowercase email
//
// Tokens are stateless: validation checks the signature and expiry only,
// with no database lookup. There is no refresh or rotation mechanism;
// clients log in again when a token expires.
package auth
