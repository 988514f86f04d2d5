package loopnest

import (
	"testing"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

func TestExplicitBoundAssertions_SkipsModulusOnly(t *testing.T) {
	sched := schedule.Schedule{Bounds: []schedule.Bound{{Var: "x", Modulus: ir.I(4)}}}
	body := ir.Evaluate{Value: ir.I(0)}
	s := ExplicitBoundAssertions("f", 0, sched, body)
	if s != ir.Stmt(body) {
		t.Fatalf("expected body unchanged when only a modulus bound is present, got %v", s)
	}
}

func TestExplicitBoundAssertions_WrapsMinAndExtent(t *testing.T) {
	sched := schedule.Schedule{Bounds: []schedule.Bound{{Var: "x", Min: ir.I(0), Extent: ir.I(100)}}}
	body := ir.Evaluate{Value: ir.I(0)}
	s := ExplicitBoundAssertions("f", 0, sched, body)

	found := false
	ir.WalkStmt(externVisitor{onStmt: func(n ir.Stmt) {
		if _, ok := n.(ir.AssertStmt); ok {
			found = true
		}
	}}, s)
	if !found {
		t.Fatalf("expected an AssertStmt, got:\n%s", ir.Print(s))
	}
}
