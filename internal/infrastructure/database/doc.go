// Package database provides SQLite connection management for VoltGuard Core.
//
// It wraps database/sql with WAL-mode configuration, enforced foreign
// keys (the user -> sensor -> reading/anomaly ownership chains depend on
// cascading deletes), health checks, and an embedded migration runner.
//
// Migrations are SQL files embedded at build time by the migrations
// package and applied one-per-transaction in version order.
//
// # Thread Safety
//
// DB is safe for concurrent use. SQLite allows a single writer; the
// connection pool is limited to one connection, and WAL mode permits
// concurrent readers.
package database
