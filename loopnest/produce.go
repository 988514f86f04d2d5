package loopnest

import (
	"fmt"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

// BuildProduce implements SPEC_FULL.md §4.4: for a pure function it
// delegates to BuildDefinition for the initial definition and each
// update stage, chained as Block(produce_stage_0, block_of(updates)).
// For an extern function it builds the external call instead.
func BuildProduce(fn *schedule.Function) (ir.Stmt, error) {
	if fn.IsExtern() {
		return buildExternCall(fn)
	}

	prefix0 := names.StagePrefix(fn.Name, 0)
	stage0, err := BuildDefinition(fn.Name, 0, prefix0, -1, fn.Args, fn.Definition, false)
	if err != nil {
		return nil, fmt.Errorf("building stage 0 of %s: %w", fn.Name, err)
	}

	stmts := []ir.Stmt{stage0}
	for i, upd := range fn.Updates {
		stage := i + 1
		prefix := names.StagePrefix(fn.Name, stage)
		s, err := BuildDefinition(fn.Name, stage, prefix, -1, fn.Args, upd, true)
		if err != nil {
			return nil, fmt.Errorf("building stage %d of %s: %w", stage, fn.Name, err)
		}
		stmts = append(stmts, s)
	}
	return ir.Block{Stmts: stmts}, nil
}

// buildExternCall builds the call to an externally implemented
// function: an argument list (expressions passed through qualified,
// function/image-param/buffer arguments become buffer-handle
// references), the call itself, a success check, and — when the
// target carries the MSAN feature — initialization annotations emitted
// before the call.
func buildExternCall(fn *schedule.Function) (ir.Stmt, error) {
	ext := fn.Extern
	prefix := names.StagePrefix(fn.Name, 0)

	args := make([]ir.Expr, 0, len(ext.Args)+1)
	var msanAnnotations []ir.Stmt
	sameLevel := fn.Definition.Sched.StoreLevel.Equal(fn.Definition.Sched.ComputeLevel)

	for _, a := range ext.Args {
		switch arg := a.(type) {
		case schedule.ExternExprArg:
			args = append(args, names.Qualify(prefix, arg.Expr))
		case schedule.ExternFuncArg:
			args = append(args, ir.V(names.Buffer(arg.Func, 0)))
		case schedule.ExternImageParamArg:
			bufName := names.Buffer(arg.Name, 0)
			args = append(args, ir.V(bufName))
			msanAnnotations = append(msanAnnotations, ir.Evaluate{Value: ir.Call{
				Name: "halide_msan_annotate_memory_is_initialized", CallType: ir.CallIntrinsic,
				Args: []ir.Expr{ir.V(bufName)},
			}})
		case schedule.ExternBufferArg:
			bufName := names.Buffer(arg.Name, 0)
			args = append(args, ir.V(bufName))
			if !sameLevel {
				msanAnnotations = append(msanAnnotations, ir.Evaluate{Value: ir.Call{
					Name: "halide_msan_annotate_buffer_is_initialized", CallType: ir.CallIntrinsic,
					Args: []ir.Expr{ir.V(bufName)},
				}})
			}
		default:
			return nil, fmt.Errorf("loopnest: unknown extern arg kind %T for %s", a, fn.Name)
		}
	}

	out := ir.V(names.Buffer(fn.Name, 0))
	if !sameLevel {
		// The callee does not write directly into the realized buffer;
		// synthesize a temporary descriptor from the site's
		// min/extent/stride instead of the caller's realized bounds.
		out = ir.V(fn.Name + ".tmp_buffer")
		var siteBounds []ir.Expr
		for _, a := range fn.Args {
			siteBounds = append(siteBounds,
				ir.V(names.MinRealized(fn.Name, a)),
				ir.V(names.ExtentRealized(fn.Name, a)),
				ir.V(names.Stride(fn.Name, a, 0)),
			)
		}
		args = append(args, ir.Call{Name: "make_buffer_descriptor", CallType: ir.CallIntrinsic, Args: siteBounds})
	} else {
		args = append(args, out)
	}

	call := ir.Call{Name: ext.Name, CallType: ir.CallExtern, Args: args}
	resultVar := fn.Name + ".extern_result"

	var body ir.Stmt = ir.AssertStmt{
		Condition: ir.EQ(ir.V(resultVar), ir.I(0)),
		Message: ir.Call{
			Name: "halide_error_extern_stage_failed", CallType: ir.CallIntrinsic,
			Args: []ir.Expr{ir.StringImm{Value: ext.Name}, ir.V(resultVar)},
		},
	}
	body = ir.LetStmt{Name: resultVar, Value: call, Body: body}

	stmts := append(append([]ir.Stmt{}, msanAnnotations...), body)
	return ir.Block{Stmts: stmts}, nil
}
