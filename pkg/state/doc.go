// Package state defines the persistence-facing contract the options model
// reads from and writes through to, plus the stores shipped with the module.
//
// Responsibilities:
//   - Store only knows typed reads/writes keyed by persistence key, one
//     integer schema-version marker and a full clear. It has no knowledge of
//     the option catalogue, overrides or migrations.
//   - Reads never fail: a missing key, or a value that cannot be coerced to
//     the requested Kind, is reported as absent and the caller falls back to
//     its default.
//   - Writes are synchronous. When Write returns nil the value is durable.
//
// Stores:
//
//	MemoryStore  in-process map, used by tests and examples
//	FileStore    viper-backed settings file (yaml, toml or json) guarded by
//	             an exclusive lock file so one process owns it at a time
//
// Keys are stable strings chosen by the catalogue and never derived from the
// in-memory enumeration order, so reordering options does not orphan
// persisted values.
package state
