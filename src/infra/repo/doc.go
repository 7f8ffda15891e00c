// Package repo contains the repository adapters for the ports in src/core/ports.
//
// Two stores are provided, selected by APP_STORE_DRIVER:
//   - memory: snapshots in maps guarded by a mutex, for development and tests
//   - postgres: pgx-backed projection tables plus an append-only event log
//
// Both persist the projected state of an aggregate and hand back a freshly
// restored aggregate on Load.
package repo
