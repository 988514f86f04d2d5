package inject

import (
	"fmt"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/loopnest"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// InjectGroup threads a compute_with group's realization into a
// skeleton statement (SPEC_FULL.md §4.7). group[0] is the parent; every
// member shares its compute and store level.
func InjectGroup(group []*schedule.Function, outputFlags []bool, env schedule.Env, s ir.Stmt) (ir.Stmt, error) {
	skip := make([]bool, len(group))
	anyLive := false
	for i, fn := range group {
		used := ir.StmtUsesName(s, fn.Name)
		skip[i] = !used && !outputFlags[i]
		if !skip[i] {
			anyLive = true
		}
	}
	if !anyLive {
		return s, nil
	}
	if skip[0] {
		return nil, fmt.Errorf("inject: %q is the parent of its compute_with group and cannot be skipped", group[0].Name)
	}

	consumer := s
	for i := len(group) - 1; i >= 0; i-- {
		if skip[i] {
			continue
		}
		consumer = ir.ProducerConsumer{Name: group[i].Name, IsProducer: false, Body: wrapPrefetches(group[i], consumer)}
	}

	producer, addLets, bounds, err := buildFusedProducer(group, skip)
	if err != nil {
		return nil, err
	}
	for i := len(addLets) - 1; i >= 0; i-- {
		producer = ir.LetStmt{Name: addLets[i].Name, Value: addLets[i].Value, Body: producer}
	}
	producer = propagateUnionBounds(group, skip, bounds, producer)

	for i := 0; i < len(group); i++ {
		if skip[i] {
			continue
		}
		producer = ir.ProducerConsumer{Name: group[i].Name, IsProducer: true, Body: producer}
	}

	result := ir.Stmt(ir.Block{Stmts: []ir.Stmt{producer, consumer}})
	for i := 0; i < len(group); i++ {
		if skip[i] || (!ir.StmtUsesName(result, group[i].Name) && !outputFlags[i]) {
			continue
		}
		result = buildGroupRealize(group[i], result)
	}

	return result, nil
}

// buildFusedProducer runs step 3 of SPEC_FULL.md §4.7: every non-skipped
// member's stages are built with their fused dims redirected to the
// parent's loop, and injected into the evolving producer statement at
// their fuse level.
func buildFusedProducer(group []*schedule.Function, skip []bool) (ir.Stmt, []ir.LetStmt, map[string]string, error) {
	var producer ir.Stmt
	first := true
	var addLets []ir.LetStmt
	captureBindings := map[string]string{} // childBoundName -> parentBoundName, for union-bound propagation

	for i, fn := range group {
		if skip[i] {
			continue
		}
		for stage := 0; stage < fn.NumStages(); stage++ {
			def := fn.Stage(stage)
			startFuse := startFuseIndex(fn, stage, group, skip)

			prefix := names.StagePrefix(fn.Name, stage)
			built, err := loopnest.BuildDefinition(fn.Name, stage, prefix, startFuse, fn.Args, def, stage > 0)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("inject: building fused stage %d of %s: %w", stage, fn.Name, err)
			}

			if startFuse >= 0 {
				for d := startFuse; d < len(def.Sched.Dims)-1; d++ {
					dim := def.Sched.Dims[d]
					childVar := prefix + dim.Var
					parentVar := findParentLoopVar(group, skip, fn, stage, dim.Var)
					if parentVar == "" {
						continue
					}
					fusedVar := names.FusedLoopVar(fn.Name, stage, dim.Var)
					built = renameFusedLoop(built, childVar, fusedVar, parentVar)
					captureBindings[names.LoopMin(childVar)] = names.LoopMin(parentVar)
					captureBindings[names.LoopMax(childVar)] = names.LoopMax(parentVar)
				}
			}

			inner, lets := peelLets(built)
			addLets = append(addLets, lets...)

			if first {
				producer = inner
				first = false
				continue
			}

			level := def.Sched.ComputeLevel
			if def.Sched.FuseLevel != nil {
				level = *def.Sched.FuseLevel
			}
			producer = injectAtLevel(producer, level, inner)
		}
	}
	if producer == nil {
		producer = ir.Block{}
	}
	return producer, addLets, captureBindings, nil
}

// renameFusedLoop implements SPEC_FULL.md §4.7 step 4 and the stable
// naming surface of §6: a child dim redirected into its parent's loop
// gets its own loop var renamed to its "fused" form rather than being
// silently collapsed into the parent's references. The redirected For
// node's body and its own bound references move to the new name, and
// the new name gets fresh bindings pinning it to the parent's current
// iteration (min == max == parentVar, extent 1); the old bound lets
// from BuildDefinition's pure-arg step are left in place, unread by
// the body but still available to propagateUnionBounds by their
// original names.
func renameFusedLoop(s ir.Stmt, oldVar, newVar, parentVar string) ir.Stmt {
	s = ir.RenameVar(names.LoopMin(oldVar), names.LoopMin(newVar), s)
	s = ir.RenameVar(names.LoopMax(oldVar), names.LoopMax(newVar), s)
	s = ir.RenameVar(names.LoopExtent(oldVar), names.LoopExtent(newVar), s)
	s = ir.RenameVar(oldVar, newVar, s)
	s = (&forRenamer{oldName: oldVar, newName: newVar}).MutateStmt(s)

	s = ir.LetStmt{Name: names.LoopExtent(newVar), Value: ir.I(1), Body: s}
	s = ir.LetStmt{Name: names.LoopMax(newVar), Value: ir.V(parentVar), Body: s}
	s = ir.LetStmt{Name: names.LoopMin(newVar), Value: ir.V(parentVar), Body: s}
	return s
}

// forRenamer renames a For node's Name field and forces it Serial: a
// dim redirected into a parent's loop always iterates exactly once, so
// whatever parallel/vectorized for_type the schedule originally gave it
// would be meaningless and, for Parallel, racy against sibling
// iterations sharing the same collapsed extent.
type forRenamer struct {
	ir.Base
	oldName, newName string
}

func (r *forRenamer) MutateStmt(s ir.Stmt) ir.Stmt {
	f, ok := s.(ir.For)
	if !ok {
		return ir.DefaultMutateStmt(r, s)
	}
	if f.Name == r.oldName {
		f.Name = r.newName
		f.ForType = ir.Serial
	}
	f.Min = r.MutateExpr(f.Min)
	f.Extent = r.MutateExpr(f.Extent)
	f.Body = r.MutateStmt(f.Body)
	return f
}

func (r *forRenamer) MutateExpr(e ir.Expr) ir.Expr { return ir.DefaultMutateExpr(r, e) }

// startFuseIndex returns the minimum dim index (in the stage's own dim
// list) from which this stage's outer dims are redirected to the
// parent's loop, taken over the stage's own fuse_level var and the
// vars of this stage's registered FusedPairs with a non-skipped child
// (dims are innermost-first, so this is the innermost of them), or -1
// if none applies.
func startFuseIndex(fn *schedule.Function, stage int, group []*schedule.Function, skip []bool) int {
	sched := fn.StageSchedule(stage)
	best := -1
	consider := func(v string) {
		idx := sched.DimIndex(v)
		if idx < 0 {
			return
		}
		if best < 0 || idx < best {
			best = idx
		}
	}
	if sched.FuseLevel != nil && !sched.FuseLevel.IsInline() && !sched.FuseLevel.IsRoot() {
		consider(sched.FuseLevel.Var)
	}
	for _, fp := range sched.FusedPairs {
		if fp.Func1 != fn.Name || fp.Stage1 != stage {
			continue
		}
		if memberSkipped(group, skip, fp.Func2) {
			continue
		}
		consider(fp.Var)
	}
	return best
}

func memberSkipped(group []*schedule.Function, skip []bool, name string) bool {
	for i, fn := range group {
		if fn.Name == name {
			return skip[i]
		}
	}
	return false
}

// findParentLoopVar resolves the qualified loop-variable name of the
// parent loop a child dim has been fused into.
func findParentLoopVar(group []*schedule.Function, skip []bool, child *schedule.Function, childStage int, dim string) string {
	sched := child.StageSchedule(childStage)
	for _, fp := range sched.FusedPairs {
		if fp.Func1 == child.Name && fp.Stage1 == childStage && fp.Var == dim {
			return names.LoopVar(fp.Func2, fp.Stage2, fp.Var)
		}
	}
	for _, fn := range group {
		for _, fp := range fn.StageSchedule(0).FusedPairs {
			if fp.Func2 == child.Name && fp.Var == dim {
				return names.LoopVar(fp.Func1, fp.Stage1, fp.Var)
			}
		}
	}
	return ""
}

// injectAtLevel appends stageStmt into the producer's For body at the
// named loop level, or as a sibling block if level is inline/root.
func injectAtLevel(producer ir.Stmt, level schedule.LoopLevel, stageStmt ir.Stmt) ir.Stmt {
	if level.IsInline() || level.IsRoot() {
		return ir.Block{Stmts: []ir.Stmt{producer, stageStmt}}
	}
	inj := &levelInjector{level: level, stageStmt: stageStmt}
	return inj.MutateStmt(producer)
}

type levelInjector struct {
	ir.Base
	level     schedule.LoopLevel
	stageStmt ir.Stmt
	done      bool
}

func (inj *levelInjector) MutateStmt(s ir.Stmt) ir.Stmt {
	f, ok := s.(ir.For)
	if !ok {
		return ir.DefaultMutateStmt(inj, s)
	}
	f.Body = inj.MutateStmt(f.Body)
	if !inj.done && inj.level.Match(f.Name) {
		f.Body = ir.Block{Stmts: []ir.Stmt{f.Body, inj.stageStmt}}
		inj.done = true
	}
	return f
}

func (inj *levelInjector) MutateExpr(e ir.Expr) ir.Expr { return ir.DefaultMutateExpr(inj, e) }

// propagateUnionBounds implements SPEC_FULL.md §4.7 step 5: for every
// captured child bound name, union it into the parent's binding in the
// producer (min <- min(parent,child), max <- max(parent,child)) and
// substitute the simplified result back in.
func propagateUnionBounds(group []*schedule.Function, skip []bool, bindings map[string]string, producer ir.Stmt) ir.Stmt {
	values := map[string]ir.Expr{}
	collectLetValues(producer, values)

	for childName, parentName := range bindings {
		childVal, ok1 := values[childName]
		parentVal, ok2 := values[parentName]
		if !ok1 || !ok2 {
			continue
		}
		var unioned ir.Expr
		if hasSuffix(childName, ".loop_min") {
			unioned = ir.Simplify(ir.Min(parentVal, childVal))
		} else {
			unioned = ir.Simplify(ir.Max(parentVal, childVal))
		}
		producer = ir.Substitute(parentName, unioned, producer)
	}
	return producer
}

func collectLetValues(s ir.Stmt, into map[string]ir.Expr) {
	for {
		l, ok := s.(ir.LetStmt)
		if !ok {
			return
		}
		into[l.Name] = l.Value
		s = l.Body
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// buildGroupRealize emits gi's Realize and explicit-bound assertions
// around body, nesting so earlier group members end up innermost (the
// caller iterates the group forward and keeps re-wrapping body).
func buildGroupRealize(fn *schedule.Function, body ir.Stmt) ir.Stmt {
	bounds := realizeBounds(fn)
	realize := ir.Realize{Name: fn.Name, Bounds: bounds, Condition: ir.ConstTrue(), Body: body}
	return loopnest.ExplicitBoundAssertions(fn.Name, 0, fn.Definition.Sched, realize)
}
