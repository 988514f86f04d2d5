package sched

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gogpu/imgsched/inject"
	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
	"github.com/gogpu/imgsched/target"
	"github.com/gogpu/imgsched/validate"
)

// LowerOptions is the input to Lower (SPEC_FULL.md §6's driver input):
// the pipeline's output functions, a topological order over all
// pipeline functions, the compute_with groups (each processed in
// reverse), the environment mapping every name to its Function, and
// optionally a non-default Target and Logger.
type LowerOptions struct {
	Outputs     []string
	Order       []string
	FusedGroups [][]string
	Env         schedule.Env
	Target      *target.Target
	Logger      *logrus.Logger
}

// LowerResult is what Lower returns: the lowered statement tree and
// whether any function in the pipeline was marked memoized.
type LowerResult struct {
	Stmt        ir.Stmt
	AnyMemoized bool
}

// Lower runs the schedule-lowering pass end to end (SPEC_FULL.md
// §4.10), in the shape of the teacher compiler's CompileWithOptions:
// validate, seed a skeleton, inject every compute_with group in reverse
// topological order, strip the synthetic root and __outermost
// scaffolding, and return the result.
func Lower(opts LowerOptions) (*LowerResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	tg := opts.Target
	if tg == nil {
		tg = target.Default()
	}

	if err := validate.FusedPairs(opts.Env); err != nil {
		return nil, &ScheduleError{Func: "<pipeline>", Cause: err}
	}

	outputSet := make(map[string]bool, len(opts.Outputs))
	for _, o := range opts.Outputs {
		outputSet[o] = true
	}

	var s ir.Stmt = ir.For{
		Name: names.RootLoopName, Min: ir.I(0), Extent: ir.I(1),
		ForType: ir.Serial, DeviceAPI: ir.Host, Body: ir.Evaluate{Value: ir.I(0)},
	}

	anyMemoized := false
	for gi := len(opts.FusedGroups) - 1; gi >= 0; gi-- {
		groupNames := opts.FusedGroups[gi]
		funcs := make([]*schedule.Function, 0, len(groupNames))
		outFlags := make([]bool, 0, len(groupNames))

		for _, name := range groupNames {
			fn, ok := opts.Env[name]
			if !ok {
				return nil, &InternalError{Where: "Lower", Cause: fmt.Errorf("fused group references unknown function %q", name)}
			}
			funcs = append(funcs, fn)
			isOut := outputSet[name]
			outFlags = append(outFlags, isOut)

			if err := validate.Function(fn, isOut, opts.Env, tg); err != nil {
				return nil, &ScheduleError{Func: name, Cause: err}
			}
			if err := validate.Placement(fn, s, tg); err != nil {
				return nil, &ScheduleError{Func: name, Cause: err}
			}
			for i := 0; i < fn.NumStages(); i++ {
				if fn.StageSchedule(i).Memoized {
					anyMemoized = true
				}
			}
		}

		logger.Debugf("imgsched: processing group %v", groupNames)

		var err error
		switch {
		case len(funcs) == 1 && isInlineable(funcs[0]) && !hasRelevantFusedPairs(funcs[0]):
			logger.Debugf("imgsched: inlining %s", funcs[0].Name)
			s = inject.InlineFunction(funcs[0], s)
		case len(funcs) == 1:
			logger.Debugf("imgsched: single-function injection for %s", funcs[0].Name)
			s, err = inject.Inject(funcs[0], outFlags[0], opts.Env, s)
		default:
			logger.Debugf("imgsched: fused-group injection for %v", groupNames)
			s, err = inject.InjectGroup(funcs, outFlags, opts.Env, s)
		}
		if err != nil {
			return nil, &InternalError{Where: fmt.Sprintf("injecting group %v", groupNames), Cause: err}
		}
	}

	root, ok := s.(ir.For)
	if !ok {
		return nil, &InternalError{Where: "Lower", Cause: fmt.Errorf("root skeleton was not a For after injection, got %T", s)}
	}
	s = root.Body

	for _, fn := range opts.Env {
		touched, untouched := false, false
		for i := 0; i < fn.NumStages(); i++ {
			if fn.StageSchedule(i).Touched {
				touched = true
			} else {
				untouched = true
			}
		}
		if touched && untouched {
			logger.Warnf("imgsched: %q is partially scheduled: some stages are scheduled and others are not", fn.Name)
		}
	}

	return &LowerResult{Stmt: stripOutermost(s), AnyMemoized: anyMemoized}, nil
}

func isInlineable(fn *schedule.Function) bool {
	return !fn.IsExtern() && fn.NumStages() == 1 && fn.Definition.Sched.ComputeLevel.IsInline()
}

func hasRelevantFusedPairs(fn *schedule.Function) bool {
	return len(fn.Definition.Sched.FusedPairs) > 0
}
