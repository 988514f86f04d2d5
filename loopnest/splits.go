package loopnest

import (
	"fmt"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// LetBinding is one new variable ApplySplits needs bound before the
// substitutions it returns can be evaluated. In practice the derived
// bounds (outer/inner loop_min/max/extent) are emitted separately by
// ComputeLoopBoundsAfterSplit (SPEC_FULL.md §4.2a); Lets is reserved
// for a split whose substitution needs an intermediate value with no
// natural bound-let home, and is empty for every tail strategy this
// package implements today.
type LetBinding struct {
	Name  string
	Value ir.Expr
}

// SplitResult is the apply-splits contract of SPEC_FULL.md §4.3: a set
// of variable substitutions, new let-bindings, and predicates required
// for correctness under the chosen tail strategies.
type SplitResult struct {
	// Substitutions maps a qualified old variable name to the
	// expression that replaces every reference to it.
	Substitutions map[string]ir.Expr
	Lets          []LetBinding
	Predicates    []ir.Expr
}

// ApplySplits implements SPEC_FULL.md §4.3/§4.3a: given the split list,
// the is_update flag, the qualifying prefix, and the dim-extent map, it
// produces substitutions, new let-bindings, and predicate expressions.
func ApplySplits(prefix string, splits []schedule.Split, isUpdate bool, extents map[string]DimExtent) (SplitResult, error) {
	res := SplitResult{Substitutions: make(map[string]ir.Expr, len(splits))}
	for _, sp := range splits {
		switch sp.Kind {
		case schedule.SplitKindSplit:
			if err := applySplit(prefix, sp, extents, &res); err != nil {
				return SplitResult{}, err
			}
		case schedule.SplitKindFuse:
			if err := applyFuse(prefix, sp, extents, &res); err != nil {
				return SplitResult{}, err
			}
		case schedule.SplitKindRename:
			res.Substitutions[prefix+sp.Old] = ir.V(prefix + sp.New)
		case schedule.SplitKindPurify:
			res.Substitutions[prefix+sp.Old] = ir.V(prefix + sp.New)
		default:
			return SplitResult{}, fmt.Errorf("loopnest: unknown split kind %d", sp.Kind)
		}
	}
	_ = isUpdate // tail-strategy choice is orthogonal to is_update in this implementation; kept for signature fidelity with SPEC_FULL.md §4.2.
	return res, nil
}

func applySplit(prefix string, sp schedule.Split, extents map[string]DimExtent, res *SplitResult) error {
	outer := prefix + sp.Outer
	inner := prefix + sp.Inner
	old := prefix + sp.Old

	reconstructed := ir.Add(ir.Mul(ir.V(outer), sp.Factor), ir.V(inner))
	res.Substitutions[old] = reconstructed

	switch sp.Tail {
	case schedule.RoundUp:
		// No predicate: the outer loop's extent rounds up (see
		// ComputeLoopBoundsAfterSplit), so some tail iterations write
		// outside the original domain; the caller's split_predicate is
		// expected to carry the remainder guard when correctness
		// requires it.
	case schedule.GuardWithIf, schedule.PredicateLoads:
		max := ir.V(names.InferredMax(old))
		if ext, ok := extents[sp.Old]; ok && ext.Extent != nil && ext.Min != nil {
			max = ir.Sub(ir.Add(ext.Min, ext.Extent), ir.I(1))
		}
		res.Predicates = append(res.Predicates, ir.LE(reconstructed, max))
	case schedule.ShiftInwards:
		// No predicate: ComputeLoopBoundsAfterSplit shifts the outer
		// loop's min so the last tile always lands exactly on the
		// domain's last valid value.
	default:
		return fmt.Errorf("loopnest: unknown tail strategy %d for split of %q", sp.Tail, sp.Old)
	}
	return nil
}

func applyFuse(prefix string, sp schedule.Split, extents map[string]DimExtent, res *SplitResult) error {
	innerExtent, ok := extents[sp.Inner]
	if !ok || innerExtent.Extent == nil {
		return fmt.Errorf("loopnest: fuse of %q,%q requires a known inner extent for %q", sp.Outer, sp.Inner, sp.Inner)
	}
	fused := ir.V(prefix + sp.New)
	res.Substitutions[prefix+sp.Outer] = ir.Div(fused, innerExtent.Extent)
	res.Substitutions[prefix+sp.Inner] = ir.Mod(fused, innerExtent.Extent)
	return nil
}
