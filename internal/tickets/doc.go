// Package tickets provides host-side candidate sources for the ordering
// engine: a SQLite ticket catalog sharing the board database, an in-memory
// list for tests and embedding, and a YAML import format.
//
// The engine only ever reads from these sources.
package tickets
