package loopnest

import (
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

// DimExtent is what's known about one dim's domain from the schedule's
// explicit bounds/rvars, consulted by ApplySplits and
// ComputeLoopBoundsAfterSplit to compute split/fuse arithmetic.
type DimExtent struct {
	Min     ir.Expr
	Extent  ir.Expr
	Modulus ir.Expr
}

// ExtentMap builds dim → known extent/modulus from a schedule's Bounds
// and RVars (SPEC_FULL.md §4.2 step 3).
func ExtentMap(sched schedule.Schedule) map[string]DimExtent {
	m := make(map[string]DimExtent, len(sched.Bounds)+len(sched.RVars))
	for _, b := range sched.Bounds {
		m[b.Var] = DimExtent{Min: b.Min, Extent: b.Extent, Modulus: b.Modulus}
	}
	for _, r := range sched.RVars {
		m[r.Var] = DimExtent{Min: r.Min, Extent: r.Extent}
	}
	return m
}
