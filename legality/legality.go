package legality

import (
	"github.com/gogpu/imgsched/ir"
)

// Site is one entry of the enclosing-loop stack the analyzer tracks
// while it walks the skeleton: the loop's qualified name and whether it
// is a Parallel/Vectorized/GPU* loop (a "parallel" site, in the race
// sense SPEC_FULL.md §4.9 checks against).
type Site struct {
	LoopLevel  string
	IsParallel bool
}

func isParallel(ft ir.ForType) bool {
	switch ft {
	case ir.Parallel, ir.Vectorized, ir.GPUBlock, ir.GPUThread, ir.GPULane:
		return true
	default:
		return false
	}
}

// ComputeLegalSchedules walks s and, for every Call to fn and every
// reference to fn's buffer handle, records the stack of enclosing
// loops. The result is the longest common prefix across every use's
// stack — the set of loop levels at which fn could be computed without
// being outside any consumer.
func ComputeLegalSchedules(s ir.Stmt, fn string) []Site {
	w := &legalityWalker{target: fn}
	ir.WalkStmt(w, s)
	if len(w.stacks) == 0 {
		return nil
	}
	common := w.stacks[0]
	for _, stack := range w.stacks[1:] {
		common = commonPrefix(common, stack)
		if len(common) == 0 {
			break
		}
	}
	return common
}

type legalityWalker struct {
	ir.BaseVisitor
	target string
	stack  []Site
	stacks [][]Site
}

func (w *legalityWalker) VisitStmt(s ir.Stmt) bool {
	switch n := s.(type) {
	case ir.For:
		w.stack = append(w.stack, Site{LoopLevel: n.Name, IsParallel: isParallel(n.ForType)})
		ir.WalkExpr(w, n.Min)
		ir.WalkExpr(w, n.Extent)
		ir.WalkStmt(w, n.Body)
		w.stack = w.stack[:len(w.stack)-1]
		return false
	case ir.Realize:
		if n.Name == w.target+".buffer" || n.Name == w.target {
			w.record()
		}
	}
	return true
}

func (w *legalityWalker) VisitExpr(e ir.Expr) bool {
	if c, ok := e.(ir.Call); ok && c.CallType == ir.CallPure && c.Name == w.target {
		w.record()
	}
	if v, ok := e.(ir.Var); ok && hasPrefix(v.Name, w.target+".buffer") {
		w.record()
	}
	return true
}

func (w *legalityWalker) record() {
	stack := make([]Site, len(w.stack))
	copy(stack, w.stack)
	w.stacks = append(w.stacks, stack)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// commonPrefix returns the longest shared prefix of a and b, matching
// sites outermost-first by LoopLevel equality.
func commonPrefix(a, b []Site) []Site {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for ; i < n; i++ {
		if a[i].LoopLevel != b[i].LoopLevel || a[i].IsParallel != b[i].IsParallel {
			break
		}
	}
	return a[:i]
}
