package sched

import (
	"strings"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
)

// stripOutermost removes the synthetic "__outermost" loop nest that
// every stage's loop nest is built under (SPEC_FULL.md §4.10 step 5):
// each __outermost For collapses to its body with Min substituted for
// its loop variable, and each __outermost.{loop_min,loop_max,loop_extent}
// LetStmt collapses to its body with the bound value substituted.
func stripOutermost(s ir.Stmt) ir.Stmt {
	m := &outermostStripper{}
	return m.MutateStmt(s)
}

type outermostStripper struct {
	ir.Base
}

func (m *outermostStripper) MutateStmt(s ir.Stmt) ir.Stmt {
	s = ir.DefaultMutateStmt(m, s)

	if f, ok := s.(ir.For); ok && isOutermostLoopName(f.Name) {
		return ir.Substitute(f.Name, f.Min, f.Body)
	}
	if l, ok := s.(ir.LetStmt); ok && isOutermostBoundName(l.Name) {
		return ir.Substitute(l.Name, l.Value, l.Body)
	}
	return s
}

func (m *outermostStripper) MutateExpr(e ir.Expr) ir.Expr {
	return ir.DefaultMutateExpr(m, e)
}

func isOutermostLoopName(name string) bool {
	return strings.HasSuffix(name, "."+names.OutermostDim)
}

func isOutermostBoundName(name string) bool {
	suffixes := []string{".loop_min", ".loop_max", ".loop_extent"}
	for _, suf := range suffixes {
		if strings.HasSuffix(name, "."+names.OutermostDim+suf) {
			return true
		}
	}
	return false
}
