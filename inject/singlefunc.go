package inject

import (
	"fmt"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/loopnest"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// SingleFunctionInjector threads one scheduled function's realization
// into a skeleton statement (SPEC_FULL.md §4.6). It is a Mutator: call
// Inject once per function, outermost function first.
type SingleFunctionInjector struct {
	ir.Base

	fn       *schedule.Function
	isOutput bool
	env      schedule.Env

	vectorDepth int

	foundComputeLevel bool
	foundStoreLevel   bool
	// storeBeforeCompute records that the store level matched while the
	// compute level had not yet been found.
	storeBeforeCompute bool
}

// Inject applies F's injection to s and returns the rewritten
// statement. It returns an error if the completion invariant (compute
// level found at or before store level, both found) fails; the driver
// surfaces that error as an internal error.
func Inject(fn *schedule.Function, isOutput bool, env schedule.Env, s ir.Stmt) (ir.Stmt, error) {
	m := &SingleFunctionInjector{fn: fn, isOutput: isOutput, env: env}
	out := m.MutateStmt(s)
	if !m.foundComputeLevel || !m.foundStoreLevel {
		return nil, fmt.Errorf("inject: %s: compute/store level for %q was never matched in the skeleton (compute=%v store=%v)",
			"single-function injector", fn.Name, m.foundComputeLevel, m.foundStoreLevel)
	}
	if m.storeBeforeCompute {
		return nil, fmt.Errorf("inject: single-function injector: store level for %q was matched inside its compute level", fn.Name)
	}
	return out, nil
}

func (m *SingleFunctionInjector) MutateStmt(s ir.Stmt) ir.Stmt {
	switch n := s.(type) {
	case ir.For:
		if n.ForType == ir.Vectorized {
			m.vectorDepth++
		}
		peeled, lets := peelLets(n.Body)
		body := m.MutateStmt(peeled)

		if m.fn.IsExtern() && m.fn.Definition.Sched.ComputeLevel.IsInline() && m.vectorDepth > 0 &&
			ir.StmtUsesName(body, m.fn.Name) {
			body = m.wrapRealize(body)
		} else {
			if !m.foundComputeLevel && isTheRightLevel(m.fn, n.Name, computeLevelOf(m.fn)) &&
				!ir.StmtUsesName(body, m.fn.Name+".$realized") && (ir.StmtUsesName(body, m.fn.Name) || m.isOutput) {
				body = m.wrapProducerConsumer(body)
				m.foundComputeLevel = true
			}
			if !m.foundStoreLevel && isTheRightLevel(m.fn, n.Name, storeLevelOf(m.fn)) {
				m.storeBeforeCompute = !m.foundComputeLevel
				body = m.wrapRealize(body)
				m.foundStoreLevel = true
			}
		}

		body = restoreLets(lets, body)
		if n.ForType == ir.Vectorized {
			m.vectorDepth--
		}
		return ir.For{Name: n.Name, Min: n.Min, Extent: n.Extent, ForType: n.ForType, DeviceAPI: n.DeviceAPI, Body: body}

	case ir.Provide:
		if n.Name != m.fn.Name && isInlineUpdate(m.fn) && exprsUseFunc(n.Values, m.fn.Name) {
			return m.wrapRealize(n)
		}
		return n

	default:
		return ir.DefaultMutateStmt(m, s)
	}
}

func (m *SingleFunctionInjector) MutateExpr(e ir.Expr) ir.Expr {
	return ir.DefaultMutateExpr(m, e)
}

func (m *SingleFunctionInjector) wrapProducerConsumer(body ir.Stmt) ir.Stmt {
	produce, err := loopnest.BuildProduce(m.fn)
	if err != nil {
		produce = ir.Evaluate{Value: ir.StringImm{Value: "injection error: " + err.Error()}}
	}
	return ir.Block{Stmts: []ir.Stmt{
		ir.ProducerConsumer{Name: m.fn.Name, IsProducer: true, Body: produce},
		ir.ProducerConsumer{Name: m.fn.Name, IsProducer: false, Body: wrapPrefetches(m.fn, body)},
	}}
}

// wrapPrefetches implements the add_user_provided_directives carryover
// of SPEC_FULL.md §12: a prefetch directive on a host-visible,
// externally-realized function wraps its consumer body in an
// ir.Prefetch per directive, using the same realized-bounds form as
// the function's own Realize node.
func wrapPrefetches(fn *schedule.Function, body ir.Stmt) ir.Stmt {
	prefetches := fn.Definition.Sched.Prefetches
	if len(prefetches) == 0 || !fn.Definition.Sched.ComputeLevel.IsRoot() || !fn.Definition.Sched.StoreLevel.IsRoot() {
		return body
	}
	bounds := realizeBounds(fn)
	for i := len(prefetches) - 1; i >= 0; i-- {
		body = ir.Prefetch{Name: fn.Name, Bounds: bounds, Body: body}
	}
	return body
}

func (m *SingleFunctionInjector) wrapRealize(body ir.Stmt) ir.Stmt {
	if m.isOutput {
		return body
	}
	bounds := realizeBounds(m.fn)
	realize := ir.Realize{Name: m.fn.Name, Bounds: bounds, Condition: ir.ConstTrue(), Body: body}
	return loopnest.ExplicitBoundAssertions(m.fn.Name, 0, m.fn.Definition.Sched, realize)
}

// realizeBounds builds the [.min_realized, .extent_realized) range per
// argument of fn, the form the bounds-inference pass preceding this one
// supplies (SPEC_FULL.md §6's external bounds-inference dependency).
func realizeBounds(fn *schedule.Function) []ir.Range {
	bounds := make([]ir.Range, len(fn.Args))
	for i, a := range fn.Args {
		bounds[i] = ir.Range{
			Min:    ir.V(names.MinRealized(fn.Name, a)),
			Extent: ir.V(names.ExtentRealized(fn.Name, a)),
		}
	}
	return bounds
}

func computeLevelOf(fn *schedule.Function) schedule.LoopLevel {
	return fn.Definition.Sched.ComputeLevel
}

func storeLevelOf(fn *schedule.Function) schedule.LoopLevel {
	return fn.Definition.Sched.StoreLevel
}

// isTheRightLevel implements SPEC_FULL.md §4.6's fusion-redirection
// rule: level must match by name, and if the stage's own schedule
// redirects to a fuse_level, the matched loop's dim must be strictly
// inner (smaller index, since dims are innermost-first) to the
// fuse_level's var — otherwise this loop has been merged away by the
// fused-group injector and injecting here would be wrong.
func isTheRightLevel(fn *schedule.Function, loopName string, level schedule.LoopLevel) bool {
	if !level.Match(loopName) {
		return false
	}
	stage := names.StageOf(loopName)
	if stage < 0 {
		return true
	}
	sched := fn.StageSchedule(stage)
	if sched.FuseLevel == nil || sched.FuseLevel.IsInline() || sched.FuseLevel.IsRoot() {
		return true
	}
	_, v := splitLoopVar(loopName)
	matchedIdx := sched.DimIndex(v)
	fuseIdx := sched.DimIndex(sched.FuseLevel.Var)
	if matchedIdx < 0 || fuseIdx < 0 {
		return true
	}
	return matchedIdx < fuseIdx
}

func splitLoopVar(loopName string) (prefix, v string) {
	parts := names.SplitString(loopName, ".")
	if len(parts) < 3 {
		return "", loopName
	}
	return parts[0] + "." + parts[1] + ".", parts[len(parts)-1]
}

func isInlineUpdate(fn *schedule.Function) bool {
	return len(fn.Updates) > 0 && fn.Definition.Sched.ComputeLevel.IsInline()
}

func exprsUseFunc(es []ir.Expr, name string) bool {
	for _, e := range es {
		found := false
		ir.WalkExpr(callNameVisitor{name: name, found: &found}, e)
		if found {
			return true
		}
	}
	return false
}

type callNameVisitor struct {
	name  string
	found *bool
}

func (c callNameVisitor) VisitStmt(ir.Stmt) bool { return !*c.found }
func (c callNameVisitor) VisitExpr(e ir.Expr) bool {
	if *c.found {
		return false
	}
	if call, ok := e.(ir.Call); ok && call.CallType == ir.CallPure && call.Name == c.name {
		*c.found = true
		return false
	}
	return true
}

// peelLets strips a leading chain of LetStmts from s, returning the
// inner body and the peeled lets outermost-first so restoreLets can
// rebuild the identical chain.
func peelLets(s ir.Stmt) (ir.Stmt, []ir.LetStmt) {
	var lets []ir.LetStmt
	for {
		l, ok := s.(ir.LetStmt)
		if !ok {
			return s, lets
		}
		lets = append(lets, ir.LetStmt{Name: l.Name, Value: l.Value})
		s = l.Body
	}
}

func restoreLets(lets []ir.LetStmt, body ir.Stmt) ir.Stmt {
	for i := len(lets) - 1; i >= 0; i-- {
		body = ir.LetStmt{Name: lets[i].Name, Value: lets[i].Value, Body: body}
	}
	return body
}
