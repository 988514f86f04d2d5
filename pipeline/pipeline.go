package pipeline

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

// Pipeline is a loaded pipeline description, ready to feed
// sched.LowerOptions.
type Pipeline struct {
	Outputs     []string
	Order       []string
	FusedGroups [][]string
	Env         schedule.Env
}

// file is the raw YAML shape of a pipeline description.
type file struct {
	Outputs     []string       `yaml:"outputs"`
	Order       []string       `yaml:"order"`
	FusedGroups [][]string     `yaml:"fused_groups"`
	Functions   []functionSpec `yaml:"functions"`
}

type functionSpec struct {
	Name     string       `yaml:"name"`
	Args     []string     `yaml:"args"`
	Value    *exprSpec    `yaml:"value"`
	Extern   *externSpec  `yaml:"extern"`
	Schedule scheduleSpec `yaml:"schedule"`
}

type externSpec struct {
	Name string          `yaml:"name"`
	Args []externArgSpec `yaml:"args"`
}

type externArgSpec struct {
	Kind string    `yaml:"kind"` // "expr", "func", "image_param", "buffer"
	Name string    `yaml:"name"`
	Func string    `yaml:"func"`
	Expr *exprSpec `yaml:"expr"`
}

type scheduleSpec struct {
	Dims         []dimSpec   `yaml:"dims"`
	Bounds       []boundSpec `yaml:"bounds"`
	StoreLevel   levelSpec   `yaml:"store_level"`
	ComputeLevel levelSpec   `yaml:"compute_level"`
	Memoized     bool        `yaml:"memoized"`
}

type dimSpec struct {
	Var       string `yaml:"var"`
	ForType   string `yaml:"for_type"`
	DeviceAPI string `yaml:"device_api"`
}

type boundSpec struct {
	Var    string    `yaml:"var"`
	Min    *exprSpec `yaml:"min"`
	Extent *exprSpec `yaml:"extent"`
}

type levelSpec struct {
	Kind string `yaml:"kind"` // "inline", "root", "at"
	Func string `yaml:"func"`
	Var  string `yaml:"var"`
}

// exprSpec is a tagged-union expression node: exactly one of its fields
// should be set per instance. This is the pipeline file's only way to
// describe an ir.Expr; it covers the arithmetic/comparison operators and
// pure-function calls a schedule description needs, not the full IR.
type exprSpec struct {
	Int  *int64    `yaml:"int"`
	Var  string    `yaml:"var"`
	Op   string    `yaml:"op"`
	A    *exprSpec `yaml:"a"`
	B    *exprSpec `yaml:"b"`
	Call *callSpec `yaml:"call"`
}

type callSpec struct {
	Func string     `yaml:"func"`
	Args []exprSpec `yaml:"args"`
}

// Load reads and decodes a pipeline description from a YAML file at
// path, resolving expression specs, schedule levels, and dims into the
// schedule package's in-memory types.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: reading %s", path)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "pipeline: parsing %s", path)
	}

	env := make(schedule.Env, len(f.Functions))
	for _, fs := range f.Functions {
		fn, err := toFunction(fs)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: function %q", fs.Name)
		}
		env[fn.Name] = fn
	}

	return &Pipeline{
		Outputs:     f.Outputs,
		Order:       f.Order,
		FusedGroups: f.FusedGroups,
		Env:         env,
	}, nil
}

func toFunction(fs functionSpec) (*schedule.Function, error) {
	sched, err := toSchedule(fs.Schedule)
	if err != nil {
		return nil, err
	}

	fn := &schedule.Function{
		Name: fs.Name,
		Args: fs.Args,
	}

	if fs.Extern != nil {
		args := make([]schedule.ExternArg, 0, len(fs.Extern.Args))
		for _, a := range fs.Extern.Args {
			ea, err := toExternArg(a)
			if err != nil {
				return nil, err
			}
			args = append(args, ea)
		}
		fn.Extern = &schedule.Extern{Name: fs.Extern.Name, Args: args}
		fn.Definition = schedule.Definition{Sched: sched}
		return fn, nil
	}

	if fs.Value == nil {
		return nil, fmt.Errorf("non-extern function must specify a value expression")
	}
	value, err := toExpr(*fs.Value)
	if err != nil {
		return nil, err
	}

	pureArgs := make([]ir.Expr, len(fs.Args))
	for i, a := range fs.Args {
		pureArgs[i] = ir.V(a)
	}

	fn.Definition = schedule.Definition{
		Args:   pureArgs,
		Values: []ir.Expr{value},
		Sched:  sched,
	}
	return fn, nil
}

func toExternArg(a externArgSpec) (schedule.ExternArg, error) {
	switch a.Kind {
	case "expr":
		if a.Expr == nil {
			return nil, fmt.Errorf("extern arg kind %q requires expr", a.Kind)
		}
		e, err := toExpr(*a.Expr)
		if err != nil {
			return nil, err
		}
		return schedule.ExternExprArg{Expr: e}, nil
	case "func":
		return schedule.ExternFuncArg{Func: a.Func}, nil
	case "image_param":
		return schedule.ExternImageParamArg{Name: a.Name}, nil
	case "buffer":
		return schedule.ExternBufferArg{Name: a.Name}, nil
	default:
		return nil, fmt.Errorf("unknown extern arg kind %q", a.Kind)
	}
}

func toSchedule(s scheduleSpec) (schedule.Schedule, error) {
	dims := make([]schedule.Dim, 0, len(s.Dims))
	for _, d := range s.Dims {
		ft, ok := forTypeNames[d.ForType]
		if d.ForType != "" && !ok {
			return schedule.Schedule{}, fmt.Errorf("unknown for_type %q", d.ForType)
		}
		api, ok := deviceAPINames[d.DeviceAPI]
		if d.DeviceAPI != "" && !ok {
			return schedule.Schedule{}, fmt.Errorf("unknown device_api %q", d.DeviceAPI)
		}
		dims = append(dims, schedule.Dim{Var: d.Var, ForType: ft, DeviceAPI: api})
	}

	bounds := make([]schedule.Bound, 0, len(s.Bounds))
	for _, b := range s.Bounds {
		bound := schedule.Bound{Var: b.Var}
		if b.Min != nil {
			e, err := toExpr(*b.Min)
			if err != nil {
				return schedule.Schedule{}, err
			}
			bound.Min = e
		}
		if b.Extent != nil {
			e, err := toExpr(*b.Extent)
			if err != nil {
				return schedule.Schedule{}, err
			}
			bound.Extent = e
		}
		bounds = append(bounds, bound)
	}

	storeLevel, err := toLevel(s.StoreLevel)
	if err != nil {
		return schedule.Schedule{}, err
	}
	computeLevel, err := toLevel(s.ComputeLevel)
	if err != nil {
		return schedule.Schedule{}, err
	}

	return schedule.Schedule{
		Dims:         dims,
		Bounds:       bounds,
		StoreLevel:   storeLevel,
		ComputeLevel: computeLevel,
		Memoized:     s.Memoized,
	}, nil
}

func toLevel(l levelSpec) (schedule.LoopLevel, error) {
	switch l.Kind {
	case "", "inline":
		return schedule.Inline(), nil
	case "root":
		return schedule.Root(), nil
	case "at":
		if l.Func == "" || l.Var == "" {
			return schedule.LoopLevel{}, fmt.Errorf("level kind \"at\" requires func and var")
		}
		return schedule.At(l.Func, l.Var), nil
	default:
		return schedule.LoopLevel{}, fmt.Errorf("unknown level kind %q", l.Kind)
	}
}

var forTypeNames = map[string]ir.ForType{
	"serial":     ir.Serial,
	"parallel":   ir.Parallel,
	"vectorized": ir.Vectorized,
	"unrolled":   ir.Unrolled,
	"gpu_block":  ir.GPUBlock,
	"gpu_thread": ir.GPUThread,
	"gpu_lane":   ir.GPULane,
}

var deviceAPINames = map[string]ir.DeviceAPI{
	"host":          ir.Host,
	"opencl":        ir.OpenCL,
	"cuda":          ir.CUDA,
	"metal":         ir.Metal,
	"vulkan":        ir.Vulkan,
	"openglcompute": ir.OpenGLCompute,
	"hexagon_dma":   ir.HexagonDma,
	"d3d12compute":  ir.D3D12Compute,
}

var binaryOps = map[string]ir.BinOp{
	"add": ir.OpAdd,
	"sub": ir.OpSub,
	"mul": ir.OpMul,
	"div": ir.OpDiv,
	"mod": ir.OpMod,
	"min": ir.OpMin,
	"max": ir.OpMax,
	"lt":  ir.OpLT,
	"le":  ir.OpLE,
	"gt":  ir.OpGT,
	"ge":  ir.OpGE,
	"eq":  ir.OpEQ,
	"ne":  ir.OpNE,
	"and": ir.OpAnd,
	"or":  ir.OpOr,
}

func toExpr(e exprSpec) (ir.Expr, error) {
	switch {
	case e.Int != nil:
		return ir.I(*e.Int), nil
	case e.Var != "":
		return ir.V(e.Var), nil
	case e.Op != "":
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, fmt.Errorf("unknown op %q", e.Op)
		}
		if e.A == nil || e.B == nil {
			return nil, fmt.Errorf("op %q requires both a and b", e.Op)
		}
		a, err := toExpr(*e.A)
		if err != nil {
			return nil, err
		}
		b, err := toExpr(*e.B)
		if err != nil {
			return nil, err
		}
		return ir.Binary{Op: op, A: a, B: b}, nil
	case e.Call != nil:
		args := make([]ir.Expr, len(e.Call.Args))
		for i, a := range e.Call.Args {
			ae, err := toExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		return ir.Call{Name: e.Call.Func, CallType: ir.CallPure, Args: args}, nil
	default:
		return nil, fmt.Errorf("empty expression node")
	}
}
