package inject

import (
	"testing"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

func rootSchedule() schedule.Schedule {
	return schedule.Schedule{StoreLevel: schedule.Root(), ComputeLevel: schedule.Root()}
}

func TestInject_WrapsAtRootForOutput(t *testing.T) {
	fn := &schedule.Function{
		Name: "out",
		Args: []string{"x"},
		Definition: schedule.Definition{
			Args:   []ir.Expr{ir.V("x")},
			Values: []ir.Expr{ir.I(0)},
			Sched:  rootSchedule(),
		},
	}
	env := schedule.Env{"out": fn}

	root := ir.For{Name: "<root>", Min: ir.I(0), Extent: ir.I(1), ForType: ir.Serial, Body: ir.Evaluate{Value: ir.I(0)}}
	out, err := Inject(fn, true, env, root)
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}

	f, ok := out.(ir.For)
	if !ok {
		t.Fatalf("expected the root For to remain, got %T", out)
	}
	found := false
	ir.WalkStmt(externLikeVisitor(func(s ir.Stmt) {
		if pc, ok := s.(ir.ProducerConsumer); ok && pc.Name == "out" {
			found = true
		}
	}), f.Body)
	if !found {
		t.Fatalf("expected a ProducerConsumer(out) inside the root loop, got:\n%s", ir.Print(out))
	}
}

func TestInject_WrapsPrefetchForRootFunctionWithDirective(t *testing.T) {
	fn := &schedule.Function{
		Name: "out",
		Args: []string{"x"},
		Definition: schedule.Definition{
			Args:   []ir.Expr{ir.V("x")},
			Values: []ir.Expr{ir.I(0)},
			Sched: schedule.Schedule{
				StoreLevel:   schedule.Root(),
				ComputeLevel: schedule.Root(),
				Prefetches:   []schedule.Prefetch{{Var: "x"}},
			},
		},
	}
	env := schedule.Env{"out": fn}

	root := ir.For{Name: "<root>", Min: ir.I(0), Extent: ir.I(1), ForType: ir.Serial, Body: ir.Evaluate{Value: ir.I(0)}}
	out, err := Inject(fn, true, env, root)
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}

	found := false
	ir.WalkStmt(externLikeVisitor(func(s ir.Stmt) {
		if p, ok := s.(ir.Prefetch); ok && p.Name == "out" {
			found = true
		}
	}), out)
	if !found {
		t.Fatalf("expected an ir.Prefetch(out) inside the consumer, got:\n%s", ir.Print(out))
	}
}

func TestInject_FailsCompletionInvariantWhenLevelNeverMatches(t *testing.T) {
	fn := &schedule.Function{
		Name: "orphan",
		Args: []string{"x"},
		Definition: schedule.Definition{
			Args:   []ir.Expr{ir.V("x")},
			Values: []ir.Expr{ir.I(0)},
			Sched:  schedule.Schedule{StoreLevel: schedule.At("nowhere", "z"), ComputeLevel: schedule.At("nowhere", "z")},
		},
	}
	root := ir.For{Name: "<root>", Min: ir.I(0), Extent: ir.I(1), ForType: ir.Serial, Body: ir.Evaluate{Value: ir.I(0)}}
	_, err := Inject(fn, true, schedule.Env{"orphan": fn}, root)
	if err == nil {
		t.Fatal("expected an error when compute/store level never matches")
	}
}

type externLikeVisitor func(ir.Stmt)

func (v externLikeVisitor) VisitStmt(s ir.Stmt) bool { v(s); return true }
func (v externLikeVisitor) VisitExpr(ir.Expr) bool   { return true }
