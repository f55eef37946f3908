// Package session provides key/value session bags and the stores that persist them.
//
// A session is identified by an opaque id (carried in a cookie by the caller)
// and holds a flat bag of values. Stores always persist the whole bag: a
// change to a single key rewrites the entire record.
//
// # Stores
//
//   - [FileStore]: one file per session inside a configured directory
//   - [MemoryStore]: process-local map, useful for tests and single-node setups
//   - [RedisStore]: one Redis key per session, with optional TTL
//   - [PostgresStore]: one row per session in a "sessions" table
//
// None of the stores serialize concurrent writers for the same id. Two
// overlapping saves race and the last write wins.
//
// # Encoding
//
// File, Redis and PostgreSQL stores encode bags with encoding/gob, so values
// come back with their concrete Go types. Struct and other named types must
// be registered once with [Register]; saving an unregistered type fails with
// [ErrUnencodable].
//
// # Missing Records
//
// Load returns [ErrNotFound] when no record exists for an id. Callers decide
// how to treat that; the request pipeline reads it as an empty bag.
//
// # Expiry
//
// Stores do not expire records on their own, except Redis when a TTL is
// configured. A [Sweeper] runs on a cron schedule and removes records idle
// for longer than a maximum age from stores implementing [Sweepable].
package session
