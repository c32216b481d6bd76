// Package ordering maintains a total, mutable order over backlog tickets.
//
// Tickets have no intrinsic sequence. The engine gives each one an explicit
// position on demand and keeps those positions unique and dense as tickets
// are dragged around the board.
//
// # Components
//
//   - Ranker / DefaultSequence: canonical fallback order for tickets that
//     were never positioned (priority ascending, then id ascending)
//   - ResolvePosition: lazy materializer; positions unpositioned tickets in
//     default order, stopping at the requested one
//   - Move: reorder operator with "insert before index N" semantics
//   - Place: relative placement before/after another ticket
//   - Compact: explicit renumbering to 0..n-1
//
// Every mutation, including any materialization it triggers, runs inside one
// store transaction together with its history append. The engine keeps no
// position state between calls and never retries; a *board.ConflictError is
// returned to the caller, who decides whether to retry.
//
// # Usage
//
//	eng := ordering.New(st, catalog)
//	pos, ok, err := eng.ResolvePosition(ctx, relative, true)
//	if err != nil {
//	    return err
//	}
//	err = eng.Move(ctx, ticket, pos, req.Actor, time.Now())
package ordering
