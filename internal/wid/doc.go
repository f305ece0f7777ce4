// Package wid generates, validates and parses time-ordered identifiers.
//
// Two families are supported:
//
//	WID:     YYYYMMDDTHHMMSS[mmm].<seq W>Z[-<scope>][-<pad Z>]
//	HLC-WID: YYYYMMDDTHHMMSS[mmm].<lc W>Z-<node>[-<pad Z>]
//
// Generator owns (lastTick, lastSeq) and emits strictly increasing
// (tick, seq) pairs. HLCGenerator owns (pt, lc) and merges remote clock
// observations with the hybrid-logical-clock rule. Neither is safe for
// concurrent use: give each goroutine its own instance or serialize calls.
//
// Advance is the pure transition behind Generator.Next. The SQL allocator
// in internal/store runs the same transition against a shared row.
//
// Parsing is pure. Validate maps every rejection to false; Parse returns a
// *RejectError naming the section that failed.
package wid
