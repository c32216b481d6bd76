// Package harness runs YAML ordering scenarios against a real engine and
// store.
//
// A scenario lists the host's tickets, optional pre-seeded positions, a
// sequence of engine operations (resolve, move, place, compact) with
// per-step expectations, and assertions on the final board. Each scenario
// runs in a fresh in-memory database with a deterministic clock, so the
// trace it produces is stable and can be compared against a golden file:
//
//	go test ./internal/harness -update
//
// regenerates testdata/golden.
package harness
