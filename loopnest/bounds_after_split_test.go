package loopnest

import (
	"testing"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

func letValue(t *testing.T, lets []LetBinding, name string) ir.Expr {
	t.Helper()
	for _, l := range lets {
		if l.Name == name {
			return l.Value
		}
	}
	t.Fatalf("no let named %q among %d lets", name, len(lets))
	return nil
}

func TestComputeLoopBoundsAfterSplit_RoundUp(t *testing.T) {
	sp := schedule.Split{Kind: schedule.SplitKindSplit, Old: "x", Outer: "xo", Inner: "xi", Factor: ir.I(8), Tail: schedule.RoundUp}
	lets := ComputeLoopBoundsAfterSplit("f.s0.", sp, nil)

	innerExtent := letValue(t, lets, "f.s0.xi.loop_extent")
	if !ir.EqualExpr(innerExtent, ir.I(8)) {
		t.Errorf("inner extent = %s, want 8", ir.PrintExpr(innerExtent))
	}
	outerExtent := letValue(t, lets, "f.s0.xo.loop_extent")
	want := ir.Div(ir.Add(ir.V(names.LoopExtent("f.s0.x")), ir.Sub(ir.I(8), ir.I(1))), ir.I(8))
	if !ir.EqualExpr(outerExtent, want) {
		t.Errorf("outer extent = %s, want %s", ir.PrintExpr(outerExtent), ir.PrintExpr(want))
	}
}

func TestComputeLoopBoundsAfterSplit_Fuse(t *testing.T) {
	sp := schedule.Split{Kind: schedule.SplitKindFuse, Outer: "xo", Inner: "xi", New: "xfused"}
	lets := ComputeLoopBoundsAfterSplit("f.s0.", sp, nil)
	extent := letValue(t, lets, "f.s0.xfused.loop_extent")
	want := ir.Mul(ir.V(names.LoopExtent("f.s0.xo")), ir.V(names.LoopExtent("f.s0.xi")))
	if !ir.EqualExpr(extent, want) {
		t.Errorf("fused extent = %s, want %s", ir.PrintExpr(extent), ir.PrintExpr(want))
	}
}

func TestComputeLoopBoundsAfterSplit_Rename(t *testing.T) {
	sp := schedule.Split{Kind: schedule.SplitKindRename, Old: "x", New: "xr"}
	lets := ComputeLoopBoundsAfterSplit("f.s0.", sp, nil)
	min := letValue(t, lets, "f.s0.xr.loop_min")
	if !ir.EqualExpr(min, ir.V(names.LoopMin("f.s0.x"))) {
		t.Errorf("renamed min = %s", ir.PrintExpr(min))
	}
}
