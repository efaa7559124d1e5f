// Package bvsls provides the value representation and constraint repair
// kernel for stochastic local search over fixed-width bit-vectors.
//
// The package has two layers:
//
//   - Vector: a fixed-width unsigned integer backed by little-endian
//     64-bit limbs, with an explicit declared bit width and the invariant
//     that no bit above the declared width is ever set.
//   - Valuation: per-variable search state holding a committed value, a
//     candidate value, a fixed/free bit mask, an optional wrap-around
//     interval constraint and a signed-prefix length. It answers
//     admissibility queries, computes constrained floors and ceilings,
//     samples randomized admissible values, and commits or discards
//     candidates atomically.
//
// A Valuation never initiates search on its own; the move-selection logic
// of the surrounding solver proposes candidates, queries feasibility and
// bounds, and finally calls CommitEval. All operations are bounded,
// synchronous computations over limb arrays.
//
// Randomized operations take a caller-supplied RandomSource so a single
// seeded generator can be shared across many variables for reproducible
// runs; the kernel keeps no entropy state of its own.
//
// Expected infeasibility (no admissible value exists for a request) is
// always reported through boolean results. Internal contract violations
// are checked only in builds with the "bvslsdebug" tag, where they halt
// immediately; production builds carry no checking cost.
//
// Thread safety: a Valuation is exclusively owned by one solver thread.
// Scratch vectors passed into operations are borrowed for the duration of
// the call only; the kernel never retains a reference past return.
package bvsls
