package names

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/gogpu/imgsched/ir"
)

// OutermostDim is the synthetic dim name every schedule's Dim list ends
// with (SPEC_FULL.md §3).
const OutermostDim = "__outermost"

// RootLoopName is the string form of LoopLevel::root() — the name of
// the driver's seed loop (SPEC_FULL.md §6).
const RootLoopName = "<root>"

// StagePrefix returns "<fn>.s<stage>.", the prefix every name belonging
// to one stage of one function carries.
func StagePrefix(fn string, stage int) string {
	return fmt.Sprintf("%s.s%d.", fn, stage)
}

// LoopVar returns the loop variable name for var in the given stage:
// "<fn>.s<stage>.<var>".
func LoopVar(fn string, stage int, v string) string {
	return StagePrefix(fn, stage) + v
}

// FusedLoopVar returns the renamed loop variable a child stage's loop
// gets after fused-group injection redirects it to the parent's loop:
// "<fn>.s<stage>.fused.<var>" (SPEC_FULL.md §6).
func FusedLoopVar(fn string, stage int, v string) string {
	return fmt.Sprintf("%s.s%d.fused.%s", fn, stage, v)
}

// LoopMin, LoopMax, LoopExtent build the bound-let names for a loop
// variable (already qualified, e.g. via LoopVar).
func LoopMin(loopVar string) string    { return loopVar + ".loop_min" }
func LoopMax(loopVar string) string    { return loopVar + ".loop_max" }
func LoopExtent(loopVar string) string { return loopVar + ".loop_extent" }

// InferredMin and InferredMax are the ".min"/".max" names a later
// bounds-inference pass supplies for a loop variable.
func InferredMin(loopVar string) string { return loopVar + ".min" }
func InferredMax(loopVar string) string { return loopVar + ".max" }

// MinRealized and ExtentRealized name the realized-bound lets for one
// argument of a function ("<func>.<arg>.min_realized" /
// "<func>.<arg>.extent_realized").
func MinRealized(fn, arg string) string    { return fn + "." + arg + ".min_realized" }
func ExtentRealized(fn, arg string) string { return fn + "." + arg + ".extent_realized" }

// Buffer names the handle for one output of a function
// ("<func>.buffer" for the sole output, "<func>.<index>.buffer" for a
// multi-output function's Nth output).
func Buffer(fn string, outputIndex int) string {
	if outputIndex == 0 {
		return fn + ".buffer"
	}
	return fn + "." + strconv.Itoa(outputIndex) + ".buffer"
}

// Stride names the stride-of-dimension-k let for one argument of a
// function's site, used by the extern emitter to build a temporary
// buffer descriptor ("<func>.<arg>.stride.<k>").
func Stride(fn, arg string, k int) string {
	return fmt.Sprintf("%s.%s.stride.%d", fn, arg, k)
}

// IsQualified reports whether name already carries a function/stage
// prefix or a dotted suffix, i.e. it is not a bare pure/reduction
// variable name.
func IsQualified(name string) bool {
	return strings.Contains(name, ".")
}

// Qualify rewrites every unqualified Var reference in e to prefix+name,
// leaving already-qualified names (those with a dot) untouched. This
// implements SPEC_FULL.md §4.1's qualify(prefix, expr).
func Qualify(prefix string, e ir.Expr) ir.Expr {
	m := &qualifyMutator{prefix: prefix}
	return m.MutateExpr(e)
}

// QualifyStmt applies Qualify to every expression reachable in s.
func QualifyStmt(prefix string, s ir.Stmt) ir.Stmt {
	m := &qualifyMutator{prefix: prefix}
	return m.MutateStmt(s)
}

// QualifyAll qualifies every expression in a slice, in order.
func QualifyAll(prefix string, es []ir.Expr) []ir.Expr {
	return lo.Map(es, func(e ir.Expr, _ int) ir.Expr { return Qualify(prefix, e) })
}

type qualifyMutator struct {
	ir.Base
	prefix string
}

func (q *qualifyMutator) MutateExpr(e ir.Expr) ir.Expr {
	if v, ok := e.(ir.Var); ok && !IsQualified(v.Name) {
		return ir.Var{Name: q.prefix + v.Name}
	}
	return ir.DefaultMutateExpr(q, e)
}

func (q *qualifyMutator) MutateStmt(s ir.Stmt) ir.Stmt {
	return ir.DefaultMutateStmt(q, s)
}

// VarNameMatch reports whether candidate refers to var: either an exact
// match, or candidate ends with "."+var. var must itself be unqualified
// (SPEC_FULL.md §4.1's var_name_match).
func VarNameMatch(candidate, v string) bool {
	if candidate == v {
		return true
	}
	return strings.HasSuffix(candidate, "."+v)
}

// LoopLevelMatch reports whether a loop named loopName is the loop
// named by a LoopLevel's (function, var) pair: the loop's var component
// (the segment after the last dot) must equal var, and the loop's
// function/stage prefix must equal fn's stage-qualified prefix for some
// stage — callers that already know the exact stage should compare
// loopName == LoopVar(fn, stage, var) directly instead; this helper
// exists for callers (schedule.LoopLevel.Match) that only know the
// function name, not which stage produced the loop.
func LoopLevelMatch(loopName, fn, v string) bool {
	prefix := fn + ".s"
	if !strings.HasPrefix(loopName, prefix) {
		return false
	}
	return VarNameMatch(loopName, v)
}

// SplitString exposes strings.Split under the pass's own helper surface
// (SPEC_FULL.md §6 lists split_string among the consumed helpers).
func SplitString(s, sep string) []string {
	return strings.Split(s, sep)
}

// StageOf returns the stage index a name like "f.s2.x" was generated
// for, or -1 if name does not have that shape. Used by the
// single-function injector to recover which stage a loop belongs to
// when matching it against a LoopLevel.
func StageOf(name string) int {
	parts := strings.SplitN(name, ".", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[1], "s") {
		return -1
	}
	n, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return -1
	}
	return n
}
