//go:build !bvslsdebug

package bvsls

// debugAssert checks an internal invariant. In normal builds it compiles
// to nothing; builds tagged "bvslsdebug" halt on violation. It must only
// guard contract violations (caller bugs, broken invariants), never the
// expected infeasibility that operations report through boolean results.
func debugAssert(bool, string) {}
