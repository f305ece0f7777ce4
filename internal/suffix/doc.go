// Package suffix handles everything that follows the literal Z terminator
// of a WID: random lowercase-hex padding on the way out and the scope,
// node and padding segments on the way in.
//
// Plain WID suffixes are ambiguous: "-abc123" could be a scope or a
// 6-character pad. SplitWid resolves it by looking at the last hyphen
// segment. A segment of exactly Z characters is always treated as an
// attempted pad and must be lowercase hex; it never falls back to scope.
package suffix
