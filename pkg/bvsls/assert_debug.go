//go:build bvslsdebug

package bvsls

// debugAssert halts immediately on a broken internal invariant. Active
// only in builds tagged "bvslsdebug"; see assert.go for the no-op twin.
func debugAssert(cond bool, msg string) {
	if !cond {
		panic("bvsls: " + msg)
	}
}
