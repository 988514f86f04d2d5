package loopnest

import (
	"testing"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

func TestBuildProduce_PureFunctionChainsStages(t *testing.T) {
	fn := &schedule.Function{
		Name: "f",
		Args: []string{"x"},
		Definition: schedule.Definition{
			Args:   []ir.Expr{ir.V("x")},
			Values: []ir.Expr{ir.I(0)},
			Sched:  simpleSchedule(),
		},
		Updates: []schedule.Definition{
			{
				Args:   []ir.Expr{ir.V("x")},
				Values: []ir.Expr{ir.Add(ir.Call{Name: "f", CallType: ir.CallPure, Args: []ir.Expr{ir.V("x")}}, ir.I(1))},
				Sched:  simpleSchedule(),
			},
		},
	}

	s, err := BuildProduce(fn)
	if err != nil {
		t.Fatalf("BuildProduce: %v", err)
	}
	blk, ok := s.(ir.Block)
	if !ok || len(blk.Stmts) != 2 {
		t.Fatalf("expected a 2-statement block (stage 0 + 1 update), got %T", s)
	}
}

func TestBuildProduce_ExternCallsFunctionAndAsserts(t *testing.T) {
	fn := &schedule.Function{
		Name: "g",
		Args: []string{"x"},
		Definition: schedule.Definition{
			Sched: schedule.Schedule{
				StoreLevel:   schedule.Root(),
				ComputeLevel: schedule.Root(),
			},
		},
		Extern: &schedule.Extern{
			Name: "g_extern",
			Args: []schedule.ExternArg{
				schedule.ExternImageParamArg{Name: "input"},
			},
		},
	}

	s, err := BuildProduce(fn)
	if err != nil {
		t.Fatalf("BuildProduce: %v", err)
	}
	blk, ok := s.(ir.Block)
	if !ok {
		t.Fatalf("expected a Block, got %T", s)
	}

	foundCall, foundAssert := false, false
	ir.WalkStmt(externVisitor{
		onStmt: func(n ir.Stmt) {
			if _, ok := n.(ir.AssertStmt); ok {
				foundAssert = true
			}
		},
		onExpr: func(e ir.Expr) {
			if c, ok := e.(ir.Call); ok && c.Name == "g_extern" {
				foundCall = true
			}
		},
	}, blk)

	if !foundAssert {
		t.Error("expected an AssertStmt checking the extern call's result")
	}
	if !foundCall {
		t.Error("expected a Call to g_extern")
	}
}

type externVisitor struct {
	onStmt func(ir.Stmt)
	onExpr func(ir.Expr)
}

func (v externVisitor) VisitStmt(s ir.Stmt) bool {
	if v.onStmt != nil {
		v.onStmt(s)
	}
	return true
}

func (v externVisitor) VisitExpr(e ir.Expr) bool {
	if v.onExpr != nil {
		v.onExpr(e)
	}
	return true
}
