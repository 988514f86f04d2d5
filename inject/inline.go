package inject

import (
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

// InlineFunction substitutes every pure call to fn within s with fn's
// defining expression, with the call's arguments substituted for fn's
// pure variables. This is the driver's "scheduled inline" path
// (SPEC_FULL.md §4.10; §6 lists inline_function among the consumed
// helpers) for a single-stage, non-extern function with no
// compute_with partners.
func InlineFunction(fn *schedule.Function, s ir.Stmt) ir.Stmt {
	m := &inlineMutator{fn: fn}
	return m.MutateStmt(s)
}

type inlineMutator struct {
	ir.Base
	fn *schedule.Function
}

func (m *inlineMutator) MutateStmt(s ir.Stmt) ir.Stmt {
	return ir.DefaultMutateStmt(m, s)
}

func (m *inlineMutator) MutateExpr(e ir.Expr) ir.Expr {
	e = ir.DefaultMutateExpr(m, e)
	call, ok := e.(ir.Call)
	if !ok || call.CallType != ir.CallPure || call.Name != m.fn.Name {
		return e
	}
	def := m.fn.Definition
	if call.ValueIndex >= len(def.Values) {
		return e
	}
	value := def.Values[call.ValueIndex]
	for i, argName := range m.fn.Args {
		if i < len(call.Args) {
			value = ir.SubstituteExpr(argName, call.Args[i], value)
		}
	}
	return value
}
