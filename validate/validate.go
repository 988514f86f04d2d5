package validate

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/legality"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
	"github.com/gogpu/imgsched/target"
)

// Error is a user-facing scheduling-validity failure: a bad store/compute
// placement, an unsupported device API, an extern function with an
// inline input, and so on. The driver wraps these in a
// sched.ScheduleError naming the function being validated.
type Error struct {
	Func string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("invalid schedule for %q: %s", e.Func, e.Msg) }

// Function validates fn's own schedule shape: extern/inline input
// constraints, device_api support, output root requirements, and
// inline-forbids-specializations. It does not consult the skeleton —
// see Placement for the store/compute legality check.
func Function(fn *schedule.Function, isOutput bool, env schedule.Env, tg *target.Target) error {
	if fn.IsExtern() {
		for _, a := range fn.Extern.Args {
			if fa, ok := a.(schedule.ExternFuncArg); ok {
				if in, ok := env[fa.Func]; ok && in.Definition.Sched.ComputeLevel.IsInline() {
					return &Error{Func: fn.Name, Msg: fmt.Sprintf("extern function cannot take inlined input %q", fa.Func)}
				}
			}
		}
	}

	for i := 0; i < fn.NumStages(); i++ {
		sched := fn.StageSchedule(i)
		for _, d := range sched.Dims {
			if d.Var == names.OutermostDim {
				continue
			}
			if !tg.Supports(d.DeviceAPI) {
				return &Error{Func: fn.Name, Msg: fmt.Sprintf("stage %d dim %q requires unsupported device api", i, d.Var)}
			}
		}
	}

	if isOutput {
		if !fn.Definition.Sched.ComputeLevel.IsRoot() || !fn.Definition.Sched.StoreLevel.IsRoot() {
			return &Error{Func: fn.Name, Msg: "an output function must be compute_root and store_root"}
		}
	}

	if fn.Definition.Sched.ComputeLevel.IsInline() && len(fn.Definition.Specializations) > 0 {
		return &Error{Func: fn.Name, Msg: "an inline function may not carry specializations"}
	}

	touchedAny, untouchedAny := false, false
	for i := 0; i < fn.NumStages(); i++ {
		if fn.StageSchedule(i).Touched {
			touchedAny = true
		} else {
			untouchedAny = true
		}
	}
	if touchedAny && untouchedAny {
		logrus.Warnf("function %q has a mix of scheduled and unscheduled stages; unscheduled stages use the default schedule", fn.Name)
	}

	return nil
}

// Placement runs the legality analyzer against the current skeleton and
// checks that fn's declared store and compute levels are both in the
// legal-sites list, that compute is at-or-inside store, and that no
// parallel or vectorized loop separates them (which would race on the
// realized allocation).
func Placement(fn *schedule.Function, skeleton ir.Stmt, tg *target.Target) error {
	if fn.Definition.Sched.ComputeLevel.IsInline() {
		return nil
	}
	sites := legality.ComputeLegalSchedules(skeleton, fn.Name)

	storeIdx := findSite(sites, fn.Definition.Sched.StoreLevel)
	computeIdx := findSite(sites, fn.Definition.Sched.ComputeLevel)
	if storeIdx < 0 {
		return errors.Wrapf(&Error{Func: fn.Name, Msg: "declared store level is not legal for any use of this function"}, "validate")
	}
	if computeIdx < 0 {
		return errors.Wrapf(&Error{Func: fn.Name, Msg: "declared compute level is not legal for any use of this function"}, "validate")
	}
	if computeIdx < storeIdx {
		return &Error{Func: fn.Name, Msg: "compute level must be at or inside the store level"}
	}
	for i := storeIdx + 1; i < computeIdx; i++ {
		if sites[i].IsParallel {
			return &Error{Func: fn.Name, Msg: fmt.Sprintf("parallel/vectorized loop %q between store and compute would race on the realized allocation", sites[i].LoopLevel)}
		}
	}
	return nil
}

func findSite(sites []legality.Site, level schedule.LoopLevel) int {
	if level.IsRoot() {
		if len(sites) == 0 {
			return 0
		}
		return 0
	}
	for i, s := range sites {
		if level.Match(s.LoopLevel) {
			return i
		}
	}
	return -1
}

// FusedPairs validates every FusedPair declared across env: no
// extern/inline participants and matching compute levels. It does not
// compare the participants' split/rename history, not even for a
// self-fuse.
func FusedPairs(env schedule.Env) error {
	for _, fn := range env {
		for i := 0; i < fn.NumStages(); i++ {
			for _, fp := range fn.StageSchedule(i).FusedPairs {
				parent, ok := env[fp.Func1]
				if !ok {
					return &Error{Func: fp.Func1, Msg: "fused pair references an unknown function"}
				}
				child, ok := env[fp.Func2]
				if !ok {
					return &Error{Func: fp.Func2, Msg: "fused pair references an unknown function"}
				}
				if parent.IsExtern() || child.IsExtern() {
					return &Error{Func: fp.Func1, Msg: "extern functions cannot participate in compute_with"}
				}
				if parent.Definition.Sched.ComputeLevel.IsInline() || child.Definition.Sched.ComputeLevel.IsInline() {
					return &Error{Func: fp.Func1, Msg: "inline functions cannot participate in compute_with"}
				}
				if !parent.StageSchedule(fp.Stage1).ComputeLevel.Equal(child.StageSchedule(fp.Stage2).ComputeLevel) {
					return &Error{Func: fp.Func1, Msg: fmt.Sprintf("compute_with members %q and %q have different compute levels", fp.Func1, fp.Func2)}
				}
			}
		}
	}
	return nil
}
