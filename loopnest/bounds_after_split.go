package loopnest

import (
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// ComputeLoopBoundsAfterSplit implements SPEC_FULL.md §4.2a: given one
// split record and the extent map, it emits let-bindings relating the
// new loop variable(s)' bounds to the parent variable's bounds.
func ComputeLoopBoundsAfterSplit(prefix string, sp schedule.Split, extents map[string]DimExtent) []LetBinding {
	switch sp.Kind {
	case schedule.SplitKindSplit:
		return splitBounds(prefix, sp)
	case schedule.SplitKindFuse:
		return fuseBounds(prefix, sp)
	case schedule.SplitKindRename, schedule.SplitKindPurify:
		return renameBounds(prefix, sp)
	default:
		return nil
	}
}

func splitBounds(prefix string, sp schedule.Split) []LetBinding {
	old := prefix + sp.Old
	outer := prefix + sp.Outer
	inner := prefix + sp.Inner
	parentMin := ir.V(names.LoopMin(old))
	parentExtent := ir.V(names.LoopExtent(old))

	var outerMin, outerExtent ir.Expr
	switch sp.Tail {
	case schedule.ShiftInwards:
		// Exact tiles: extent is floor(parent_extent / factor); the
		// outer loop's min is shifted inward just enough that the last
		// tile's inner range still ends on the parent's last valid
		// index, so no remainder loop or guard is needed.
		outerExtent = ir.Div(parentExtent, sp.Factor)
		lastTileMin := ir.Sub(ir.Add(parentMin, parentExtent), sp.Factor)
		naturalMin := ir.Div(parentMin, sp.Factor)
		outerMin = ir.Min(naturalMin, ir.Div(lastTileMin, sp.Factor))
	default: // RoundUp, GuardWithIf, PredicateLoads
		outerExtent = ir.Div(ir.Add(parentExtent, ir.Sub(sp.Factor, ir.I(1))), sp.Factor)
		outerMin = ir.Div(parentMin, sp.Factor)
	}

	innerMin := ir.I(0)
	innerExtent := sp.Factor

	return []LetBinding{
		{Name: names.LoopMin(inner), Value: innerMin},
		{Name: names.LoopMax(inner), Value: ir.Sub(ir.Add(innerMin, innerExtent), ir.I(1))},
		{Name: names.LoopExtent(inner), Value: innerExtent},
		{Name: names.LoopMin(outer), Value: outerMin},
		{Name: names.LoopMax(outer), Value: ir.Sub(ir.Add(outerMin, outerExtent), ir.I(1))},
		{Name: names.LoopExtent(outer), Value: outerExtent},
	}
}

func fuseBounds(prefix string, sp schedule.Split) []LetBinding {
	outer := prefix + sp.Outer
	inner := prefix + sp.Inner
	fused := prefix + sp.New
	extent := ir.Mul(ir.V(names.LoopExtent(outer)), ir.V(names.LoopExtent(inner)))
	min := ir.I(0)
	return []LetBinding{
		{Name: names.LoopMin(fused), Value: min},
		{Name: names.LoopMax(fused), Value: ir.Sub(ir.Add(min, extent), ir.I(1))},
		{Name: names.LoopExtent(fused), Value: extent},
	}
}

func renameBounds(prefix string, sp schedule.Split) []LetBinding {
	old := prefix + sp.Old
	nw := prefix + sp.New
	return []LetBinding{
		{Name: names.LoopMin(nw), Value: ir.V(names.LoopMin(old))},
		{Name: names.LoopMax(nw), Value: ir.V(names.LoopMax(old))},
		{Name: names.LoopExtent(nw), Value: ir.V(names.LoopExtent(old))},
	}
}
