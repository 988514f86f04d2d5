package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
)

func TestLoopLevel_MatchAndEqual(t *testing.T) {
	assert.False(t, Inline().Match(names.RootLoopName), "inline never matches any loop")
	assert.True(t, Root().Match(names.RootLoopName))
	assert.False(t, Root().Match("f.s0.x"))

	at := At("f", "x")
	assert.True(t, at.Match(names.LoopVar("f", 0, "x")))
	assert.False(t, at.Match(names.LoopVar("g", 0, "x")))

	assert.True(t, Root().Equal(Root()))
	assert.False(t, Root().Equal(Inline()))
	assert.True(t, At("f", "x").Equal(At("f", "x")))
	assert.False(t, At("f", "x").Equal(At("f", "y")))
}

func TestSchedule_DimIndex(t *testing.T) {
	s := Schedule{Dims: []Dim{{Var: "xi"}, {Var: "xo"}, {Var: names.OutermostDim}}}
	assert.Equal(t, 0, s.DimIndex("xi"))
	assert.Equal(t, 2, s.DimIndex(names.OutermostDim))
	assert.Equal(t, -1, s.DimIndex("nope"))
}

func TestFunction_StageAccessors(t *testing.T) {
	f := Function{
		Name:       "f",
		Definition: Definition{Values: []ir.Expr{ir.I(0)}, Sched: Schedule{ComputeLevel: Root()}},
		Updates: []Definition{
			{Values: []ir.Expr{ir.I(1)}, Sched: Schedule{ComputeLevel: Inline()}},
		},
	}
	assert.Equal(t, 2, f.NumStages())
	assert.False(t, f.IsExtern())
	assert.True(t, ir.EqualExpr(f.Stage(0).Values[0], ir.I(0)))
	assert.True(t, ir.EqualExpr(f.Stage(1).Values[0], ir.I(1)))
	assert.True(t, f.StageSchedule(0).ComputeLevel.IsRoot())
	assert.True(t, f.StageSchedule(1).ComputeLevel.IsInline())

	extern := Function{Name: "e", Extern: &Extern{Name: "e_impl"}}
	assert.True(t, extern.IsExtern())
	assert.Equal(t, 1, extern.NumStages())
}

func TestEnv_Lookup(t *testing.T) {
	f := &Function{Name: "f"}
	env := Env{"f": f}

	got, ok := env.Lookup("f")
	assert.True(t, ok)
	assert.Same(t, f, got)

	_, ok = env.Lookup("missing")
	assert.False(t, ok)
}
