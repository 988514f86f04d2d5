package names

import (
	"testing"

	"github.com/gogpu/imgsched/ir"
)

func TestLoopVarAndBoundNames(t *testing.T) {
	lv := LoopVar("f", 0, "x")
	if lv != "f.s0.x" {
		t.Fatalf("LoopVar = %q", lv)
	}
	if LoopMin(lv) != "f.s0.x.loop_min" {
		t.Errorf("LoopMin = %q", LoopMin(lv))
	}
	if LoopMax(lv) != "f.s0.x.loop_max" {
		t.Errorf("LoopMax = %q", LoopMax(lv))
	}
	if LoopExtent(lv) != "f.s0.x.loop_extent" {
		t.Errorf("LoopExtent = %q", LoopExtent(lv))
	}
	if FusedLoopVar("g", 0, "y") != "g.s0.fused.y" {
		t.Errorf("FusedLoopVar = %q", FusedLoopVar("g", 0, "y"))
	}
}

func TestVarNameMatch(t *testing.T) {
	cases := []struct {
		candidate, v string
		want         bool
	}{
		{"x", "x", true},
		{"f.s0.x", "x", true},
		{"f.s0.xx", "x", false},
		{"f.s0.x", "y", false},
	}
	for _, c := range cases {
		if got := VarNameMatch(c.candidate, c.v); got != c.want {
			t.Errorf("VarNameMatch(%q,%q) = %v, want %v", c.candidate, c.v, got, c.want)
		}
	}
}

func TestQualify_OnlyUnqualifiedNames(t *testing.T) {
	e := ir.Add(ir.V("x"), ir.V("f.s0.y.loop_min"))
	got := Qualify("g.s1.", e)
	want := ir.Add(ir.V("g.s1.x"), ir.V("f.s0.y.loop_min"))
	if !ir.EqualExpr(got, want) {
		t.Errorf("Qualify = %s, want %s", ir.PrintExpr(got), ir.PrintExpr(want))
	}
}

func TestLoopLevelMatch(t *testing.T) {
	if !LoopLevelMatch("f.s2.x", "f", "x") {
		t.Error("expected match")
	}
	if LoopLevelMatch("f.s2.x", "g", "x") {
		t.Error("expected no match on different function")
	}
}

func TestStageOf(t *testing.T) {
	if got := StageOf("f.s3.x"); got != 3 {
		t.Errorf("StageOf = %d, want 3", got)
	}
	if got := StageOf("not-a-loop-name"); got != -1 {
		t.Errorf("StageOf = %d, want -1", got)
	}
}
