package schedule

import (
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
)

// LoopLevelKind distinguishes the three kinds of LoopLevel.
type LoopLevelKind uint8

const (
	LevelInline LoopLevelKind = iota
	LevelRoot
	LevelFuncVar
)

// LoopLevel is a location in the final loop tree: inline, root, or
// (function, var) (SPEC_FULL.md §3).
type LoopLevel struct {
	Kind LoopLevelKind
	Func string
	Var  string
}

func Inline() LoopLevel { return LoopLevel{Kind: LevelInline} }
func Root() LoopLevel   { return LoopLevel{Kind: LevelRoot} }
func At(fn, v string) LoopLevel {
	return LoopLevel{Kind: LevelFuncVar, Func: fn, Var: v}
}

func (l LoopLevel) IsInline() bool { return l.Kind == LevelInline }
func (l LoopLevel) IsRoot() bool   { return l.Kind == LevelRoot }

// Match reports whether loopName (a fully qualified loop name, or
// names.RootLoopName) is the loop this LoopLevel denotes. Inline levels
// never match — an inline stage has no loop of its own.
func (l LoopLevel) Match(loopName string) bool {
	switch l.Kind {
	case LevelRoot:
		return loopName == names.RootLoopName
	case LevelFuncVar:
		return names.LoopLevelMatch(loopName, l.Func, l.Var)
	default:
		return false
	}
}

// Equal reports whether two LoopLevels denote the same location.
func (l LoopLevel) Equal(o LoopLevel) bool {
	return l.Kind == o.Kind && l.Func == o.Func && l.Var == o.Var
}

// Dim is one loop dimension of a stage's schedule, ordered
// innermost-first within Schedule.Dims.
type Dim struct {
	Var       string
	ForType   ir.ForType
	DeviceAPI ir.DeviceAPI
}

// SplitKind distinguishes the four split/fuse/rename/purify directives.
type SplitKind uint8

const (
	SplitKindSplit SplitKind = iota
	SplitKindFuse
	SplitKindRename
	SplitKindPurify
)

// TailStrategy is the policy for a split's ragged edge.
type TailStrategy uint8

const (
	RoundUp TailStrategy = iota
	GuardWithIf
	ShiftInwards
	PredicateLoads
)

// Split is one split/fuse/rename/purify directive transforming named
// dims. Field use varies by Kind:
//   - Split: Old is split into Outer, Inner by Factor, tail policy Tail.
//   - Fuse: Outer, Inner are fused into New.
//   - Rename: Old is renamed to New.
//   - Purify: Old (a reduction var) becomes the pure var New.
type Split struct {
	Kind   SplitKind
	Old    string
	Outer  string
	Inner  string
	New    string
	Factor ir.Expr
	Tail   TailStrategy
}

// Bound is an explicit (var, min?, extent?, modulus?) directive from
// the user. A nil Min/Extent means unconstrained; a non-nil Modulus
// with nil Min/Extent means an alignment-only bound, which
// loopnest.ExplicitBoundAssertions skips (SPEC_FULL.md §4.5).
type Bound struct {
	Var     string
	Min     ir.Expr
	Extent  ir.Expr
	Modulus ir.Expr
}

// RVar is a reduction variable's domain.
type RVar struct {
	Var    string
	Min    ir.Expr
	Extent ir.Expr
}

// FusedPair directs that Stage2 of Func2 is fused into Stage1 of Func1
// at Var: outer dims from Var upward merge between the two stages.
type FusedPair struct {
	Func1  string
	Stage1 int
	Func2  string
	Stage2 int
	Var    string
}

// Prefetch is a user prefetch directive on a var of a stage's schedule,
// supplemented from the original implementation (SPEC_FULL.md §12).
type Prefetch struct {
	Var string
}

// Schedule holds every directive the user gave for one stage.
type Schedule struct {
	Dims         []Dim
	Splits       []Split
	Bounds       []Bound
	RVars        []RVar
	StoreLevel   LoopLevel
	ComputeLevel LoopLevel
	// FuseLevel, if non-nil, says this stage is fused into another
	// stage at a named var of that other stage: its real compute/store
	// loop lives at FuseLevel, not at ComputeLevel/StoreLevel textually
	// (see SPEC_FULL.md §4.6's fusion-redirection rule).
	FuseLevel  *LoopLevel
	FusedPairs []FusedPair
	Prefetches []Prefetch
	Touched    bool
	Memoized   bool
}

// DimIndex returns the index of v within s.Dims (innermost first), or
// -1 if v is not a dim of this schedule. OutermostDim is always
// present and always last.
func (s Schedule) DimIndex(v string) int {
	for i, d := range s.Dims {
		if d.Var == v {
			return i
		}
	}
	return -1
}

// Specialization is one (condition, alternative-definition) entry; the
// first matching condition wins, fallthrough is the base definition.
type Specialization struct {
	Condition  ir.Expr
	Definition *Definition
}

// Definition is one stage (the initial pure definition, or one update)
// of a Function.
type Definition struct {
	// Args are the index expressions written to: pure vars for the
	// initial definition, arbitrary expressions over pure and reduction
	// vars for updates.
	Args   []ir.Expr
	Values []ir.Expr
	Sched  Schedule
	// SplitPredicate holds extra guards (e.g. reduction-domain
	// predicates) that must hold in addition to the schedule's own
	// split predicates.
	SplitPredicate  []ir.Expr
	Specializations []Specialization
}

// ExternArg is one argument to an extern stage's call.
type ExternArg interface{ externArg() }

// ExternExprArg passes an already-qualified expression through.
type ExternExprArg struct{ Expr ir.Expr }

func (ExternExprArg) externArg() {}

// ExternFuncArg passes the named callee's output buffer handle.
type ExternFuncArg struct{ Func string }

func (ExternFuncArg) externArg() {}

// ExternImageParamArg passes an image-parameter buffer handle.
type ExternImageParamArg struct{ Name string }

func (ExternImageParamArg) externArg() {}

// ExternBufferArg passes a raw buffer handle by name.
type ExternBufferArg struct{ Name string }

func (ExternBufferArg) externArg() {}

// Extern marks a function as implemented by an external C-ABI call
// instead of update stages.
type Extern struct {
	Name string
	Args []ExternArg
}

// Function is a named producer over integer index domains.
type Function struct {
	Name       string
	Args       []string
	Definition Definition
	Updates    []Definition
	// OutputTypes names the value types the function writes. Type
	// checking is out of scope for this pass; these are carried through
	// unchanged for a downstream pass to interpret.
	OutputTypes []string
	// Extern is mutually exclusive with Updates in practice: a function
	// with an external implementation has no update stages of its own.
	Extern *Extern

	// TraceLoads, TraceStores, TraceRealizations are metadata for a
	// downstream tracing pass (SPEC_FULL.md §3); this pass neither reads
	// them nor copies them onto the nodes it emits.
	TraceLoads, TraceStores, TraceRealizations bool
}

// IsExtern reports whether f is implemented by an external call.
func (f Function) IsExtern() bool { return f.Extern != nil }

// NumStages returns 1 + len(Updates) (stage 0 is the initial definition).
func (f Function) NumStages() int { return 1 + len(f.Updates) }

// Stage returns the Definition for stage index i (0 is the initial
// definition, 1..N are updates).
func (f Function) Stage(i int) Definition {
	if i == 0 {
		return f.Definition
	}
	return f.Updates[i-1]
}

// StageSchedule is a convenience accessor returning Stage(i).Sched.
func (f Function) StageSchedule(i int) Schedule { return f.Stage(i).Sched }
