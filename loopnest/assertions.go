package loopnest

import (
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// ExplicitBoundAssertions implements SPEC_FULL.md §4.5: for each of a
// stage's bound() directives that constrains a min or extent (not a
// modulus-only alignment directive), it emits an AssertStmt checking
// that the bound the user declared covers the whole realized region,
// wrapping body from the outside in declaration order so the
// first bound checked is the outermost assertion.
func ExplicitBoundAssertions(fn string, stage int, sched schedule.Schedule, body ir.Stmt) ir.Stmt {
	s := body
	for i := len(sched.Bounds) - 1; i >= 0; i-- {
		b := sched.Bounds[i]
		if b.Min == nil && b.Extent == nil {
			continue // alignment-only: nothing for this pass to assert.
		}
		realizedMin := ir.V(names.MinRealized(fn, b.Var))
		realizedExtent := ir.V(names.ExtentRealized(fn, b.Var))

		var cond ir.Expr
		if b.Min != nil && b.Extent != nil {
			cond = ir.AndAll(
				ir.LE(b.Min, realizedMin),
				ir.LE(ir.Add(realizedMin, realizedExtent), ir.Add(b.Min, b.Extent)),
			)
		} else if b.Min != nil {
			cond = ir.LE(b.Min, realizedMin)
		} else {
			cond = ir.LE(ir.Add(realizedMin, realizedExtent), ir.Add(realizedMin, b.Extent))
		}

		// The error call reports (min, max) pairs, not (min, extent).
		realizedMax := ir.Sub(ir.Add(realizedMin, realizedExtent), ir.I(1))
		userMax := realizedMax
		if b.Extent != nil {
			userMax = ir.Sub(ir.Add(exprOrZero(b.Min), b.Extent), ir.I(1))
		}
		msg := ir.Call{
			Name:     "halide_error_explicit_bounds_too_small",
			CallType: ir.CallIntrinsic,
			Args: []ir.Expr{
				ir.StringImm{Value: b.Var},
				ir.StringImm{Value: fn},
				exprOrZero(b.Min),
				userMax,
				realizedMin,
				realizedMax,
			},
		}
		s = ir.Block{Stmts: []ir.Stmt{ir.AssertStmt{Condition: cond, Message: msg}, s}}
	}
	return s
}

func exprOrZero(e ir.Expr) ir.Expr {
	if e != nil {
		return e
	}
	return ir.I(0)
}
