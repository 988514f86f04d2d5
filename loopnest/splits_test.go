package loopnest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

func TestApplySplits_SplitGuardWithIfAddsPredicate(t *testing.T) {
	sp := schedule.Split{Kind: schedule.SplitKindSplit, Old: "x", Outer: "xo", Inner: "xi", Factor: ir.I(8), Tail: schedule.GuardWithIf}
	res, err := ApplySplits("f.s0.", []schedule.Split{sp}, false, nil)
	require.NoError(t, err)

	sub, ok := res.Substitutions["f.s0.x"]
	require.True(t, ok, "missing substitution for f.s0.x")
	want := ir.Add(ir.Mul(ir.V("f.s0.xo"), ir.I(8)), ir.V("f.s0.xi"))
	assert.True(t, ir.EqualExpr(sub, want), "substitution = %s, want %s", ir.PrintExpr(sub), ir.PrintExpr(want))
	assert.Len(t, res.Predicates, 1, "expected 1 predicate for GuardWithIf")
}

func TestApplySplits_ShiftInwardsAddsNoPredicate(t *testing.T) {
	sp := schedule.Split{Kind: schedule.SplitKindSplit, Old: "x", Outer: "xo", Inner: "xi", Factor: ir.I(4), Tail: schedule.ShiftInwards}
	res, err := ApplySplits("f.s0.", []schedule.Split{sp}, false, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Predicates, "expected no predicate for ShiftInwards")
}

func TestApplySplits_FuseRequiresKnownInnerExtent(t *testing.T) {
	sp := schedule.Split{Kind: schedule.SplitKindFuse, Outer: "xo", Inner: "xi", New: "xfused"}
	_, err := ApplySplits("f.s0.", []schedule.Split{sp}, false, nil)
	require.Error(t, err, "expected error when inner extent is unknown")

	extents := map[string]DimExtent{"xi": {Extent: ir.I(16)}}
	res, err := ApplySplits("f.s0.", []schedule.Split{sp}, false, extents)
	require.NoError(t, err)
	wantOuter := ir.Div(ir.V("f.s0.xfused"), ir.I(16))
	assert.True(t, ir.EqualExpr(res.Substitutions["f.s0.xo"], wantOuter),
		"outer substitution = %s, want %s", ir.PrintExpr(res.Substitutions["f.s0.xo"]), ir.PrintExpr(wantOuter))
}

func TestApplySplits_RenameAndPurify(t *testing.T) {
	res, err := ApplySplits("f.s0.", []schedule.Split{
		{Kind: schedule.SplitKindRename, Old: "x", New: "xr"},
		{Kind: schedule.SplitKindPurify, Old: "r", New: "rp"},
	}, false, nil)
	require.NoError(t, err)
	assert.True(t, ir.EqualExpr(res.Substitutions["f.s0.x"], ir.V("f.s0.xr")), "rename substitution mismatch")
	assert.True(t, ir.EqualExpr(res.Substitutions["f.s0.r"], ir.V("f.s0.rp")), "purify substitution mismatch")
}
