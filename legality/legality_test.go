package legality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/imgsched/ir"
)

func TestComputeLegalSchedules_SingleUseGivesFullStack(t *testing.T) {
	s := ir.For{Name: "f.s0.x", ForType: ir.Serial, Body: ir.For{
		Name: "f.s0.y", ForType: ir.Parallel, Body: ir.Evaluate{
			Value: ir.Call{Name: "g", CallType: ir.CallPure},
		},
	}}
	sites := ComputeLegalSchedules(s, "g")
	require.Len(t, sites, 2)
	assert.Equal(t, "f.s0.x", sites[0].LoopLevel)
	assert.Equal(t, "f.s0.y", sites[1].LoopLevel)
	assert.True(t, sites[1].IsParallel, "expected the inner loop to be recorded as parallel")
}

func TestComputeLegalSchedules_IntersectsAcrossUses(t *testing.T) {
	s := ir.Block{Stmts: []ir.Stmt{
		ir.For{Name: "f.s0.x", ForType: ir.Serial, Body: ir.For{
			Name: "f.s0.y", Body: ir.Evaluate{Value: ir.Call{Name: "g", CallType: ir.CallPure}},
		}},
		ir.For{Name: "f.s0.x", ForType: ir.Serial, Body: ir.Evaluate{Value: ir.Call{Name: "g", CallType: ir.CallPure}}},
	}}
	sites := ComputeLegalSchedules(s, "g")
	require.Len(t, sites, 1)
	assert.Equal(t, "f.s0.x", sites[0].LoopLevel)
}

func TestComputeLegalSchedules_NoUsesReturnsNil(t *testing.T) {
	assert.Nil(t, ComputeLegalSchedules(ir.Evaluate{Value: ir.I(0)}, "g"))
}
