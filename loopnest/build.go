package loopnest

import (
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// BuildDefinition builds the statement that realizes one stage's
// definition, including its specialization chain (SPEC_FULL.md §4.2,
// "Specializations"). fn/stage/prefix name the stage; startFuse, if
// >= 0, is the dim index (in def.Sched.Dims) from which this stage's
// outer dims have been redirected to a fused parent's loop and need the
// out-of-range guard of step 2. pureArgs are the function's pure
// dimension names — fixed regardless of how this stage's dims were
// split/fused/renamed.
func BuildDefinition(fn string, stage int, prefix string, startFuse int, pureArgs []string, def schedule.Definition, isUpdate bool) (ir.Stmt, error) {
	base, err := buildOneDefinition(fn, stage, prefix, startFuse, pureArgs, def.Args, def.Values, def.SplitPredicate, def.Sched, isUpdate)
	if err != nil {
		return nil, err
	}

	result := base
	for i := len(def.Specializations) - 1; i >= 0; i-- {
		sp := def.Specializations[i]
		alt, err := BuildDefinition(fn, stage, prefix, startFuse, pureArgs, *sp.Definition, isUpdate)
		if err != nil {
			return nil, err
		}
		result = ir.IfThenElse{Condition: sp.Condition, Then: alt, Else: result}
	}
	return result, nil
}

func buildOneDefinition(fn string, stage int, prefix string, startFuse int, pureArgs []string, args, values, predicates []ir.Expr, sched schedule.Schedule, isUpdate bool) (ir.Stmt, error) {
	// Step 1: seed.
	var s ir.Stmt = ir.Provide{Name: fn, Args: args, Values: values}

	// Step 2: fused out-of-range guards.
	if startFuse >= 0 {
		for i := startFuse; i < len(sched.Dims)-1; i++ {
			loopVar := prefix + sched.Dims[i].Var
			lo := ir.Likely{A: ir.LE(ir.V(names.LoopMin(loopVar)), ir.V(loopVar))}
			hi := ir.Likely{A: ir.LE(ir.V(loopVar), ir.V(names.LoopMax(loopVar)))}
			s = ir.IfThenElse{Condition: lo, Then: ir.IfThenElse{Condition: hi, Then: s}}
		}
	}

	// Step 3: extents + apply-splits.
	extents := ExtentMap(sched)
	splitRes, err := ApplySplits(prefix, sched.Splits, isUpdate, extents)
	if err != nil {
		return nil, err
	}
	for old, repl := range splitRes.Substitutions {
		s = ir.Substitute(old, repl, s)
	}

	// Steps 4-6: containers (lets and predicates). Split lets are
	// wrapped directly around the seed and its pinned predicates, inside
	// every loop, and are not moved outward (ApplySplits emits none for
	// the split kinds it implements). Predicate-hoisting is
	// dependency-aware: a
	// predicate referencing an impure call is pinned at its original
	// position (SPEC_FULL.md §9's asymmetry), and every other predicate
	// hoists outward only past dim loops that don't bind a name it
	// references, coming to rest inside the innermost loop that does
	// (or clear of the whole nest if it references none of them).
	var preds []ir.Expr
	preds = append(preds, splitRes.Predicates...)
	for _, p := range predicates {
		preds = append(preds, names.Qualify(prefix, p))
	}
	var hoistable, pinned []ir.Expr
	for _, p := range preds {
		if ir.ContainsImpureCall(p) {
			pinned = append(pinned, p)
		} else {
			hoistable = append(hoistable, p)
		}
	}
	for i := len(pinned) - 1; i >= 0; i-- {
		s = ir.IfThenElse{Condition: pinned[i], Then: s}
	}
	for i := len(splitRes.Lets) - 1; i >= 0; i-- {
		l := splitRes.Lets[i]
		s = ir.LetStmt{Name: l.Name, Value: l.Value, Body: s}
	}

	// hoistDepth[i] is the sched.Dims index of the innermost loop
	// hoistable[i] references, or -1 if it references none of them.
	// sched.Dims is innermost-first, so the first match scanning from
	// index 0 is the innermost one.
	hoistDepth := make([]int, len(hoistable))
	for i, p := range hoistable {
		hoistDepth[i] = -1
		for d, dim := range sched.Dims {
			loopVar := prefix + dim.Var
			if ir.ExprUsesVar(p, func(candidate string) bool { return candidate == loopVar }) {
				hoistDepth[i] = d
				break
			}
		}
	}

	// Step 7: wrap the dims, outermost last in Dims becomes the
	// innermost wrap since Dims is innermost-first; so we wrap from
	// index 0 (innermost) outward to len-1 (outermost). A predicate
	// whose innermost referenced dim is Dims[i] is wrapped in just
	// before that dim's For is built, so it ends up nested inside it
	// (and, transitively, inside every dim outside it).
	for i := 0; i < len(sched.Dims); i++ {
		d := sched.Dims[i]
		loopVar := prefix + d.Var

		for j, p := range hoistable {
			if hoistDepth[j] == i {
				s = ir.IfThenElse{Condition: p, Then: s}
			}
		}

		s = ir.For{
			Name:      loopVar,
			Min:       ir.V(names.LoopMin(loopVar)),
			Extent:    ir.V(names.LoopExtent(loopVar)),
			ForType:   d.ForType,
			DeviceAPI: d.DeviceAPI,
			Body:      s,
		}
	}

	// Predicates that reference none of this stage's dims hoist clear
	// of the whole loop nest.
	for j := len(hoistable) - 1; j >= 0; j-- {
		if hoistDepth[j] == -1 {
			s = ir.IfThenElse{Condition: hoistable[j], Then: s}
		}
	}

	// Step 8: per-split derived bounds, outermost-to-innermost in the
	// split list, each nested inside the next so later steps (9-11)
	// dominate by wrapping further out.
	for i := len(sched.Splits) - 1; i >= 0; i-- {
		lets := ComputeLoopBoundsAfterSplit(prefix, sched.Splits[i], extents)
		for j := len(lets) - 1; j >= 0; j-- {
			s = ir.LetStmt{Name: lets[j].Name, Value: lets[j].Value, Body: s}
		}
	}

	// Step 9: synthetic __outermost bindings.
	outVar := prefix + names.OutermostDim
	s = ir.LetStmt{Name: names.LoopExtent(outVar), Value: ir.I(1), Body: s}
	s = ir.LetStmt{Name: names.LoopMax(outVar), Value: ir.I(0), Body: s}
	s = ir.LetStmt{Name: names.LoopMin(outVar), Value: ir.I(0), Body: s}

	// Step 10: pure-dim bindings, read from bounds inference (.min/.max).
	for _, v := range pureArgs {
		loopVar := prefix + v
		min := ir.V(names.InferredMin(loopVar))
		max := ir.V(names.InferredMax(loopVar))
		s = ir.LetStmt{Name: names.LoopExtent(loopVar), Value: ir.Add(ir.Sub(max, min), ir.I(1)), Body: s}
		s = ir.LetStmt{Name: names.LoopMax(loopVar), Value: max, Body: s}
		s = ir.LetStmt{Name: names.LoopMin(loopVar), Value: min, Body: s}
	}

	// Step 11: reduction-variable bindings.
	for _, r := range sched.RVars {
		loopVar := prefix + r.Var
		s = ir.LetStmt{Name: names.LoopExtent(loopVar), Value: r.Extent, Body: s}
		s = ir.LetStmt{Name: names.LoopMax(loopVar), Value: ir.Sub(ir.Add(r.Min, r.Extent), ir.I(1)), Body: s}
		s = ir.LetStmt{Name: names.LoopMin(loopVar), Value: r.Min, Body: s}
	}

	return s, nil
}
