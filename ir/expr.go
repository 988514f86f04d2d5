package ir

// Expr is a side-effect-free, integer- or boolean-valued expression node.
type Expr interface {
	exprNode()
}

// Var references a named scalar: a loop variable, a let-bound name, or a
// bound symbol like "f.x.min". Names are plain dotted strings (see
// package names for the qualification rules).
type Var struct {
	Name string
}

func (Var) exprNode() {}

// IntImm is a signed integer literal.
type IntImm struct {
	Value int64
}

func (IntImm) exprNode() {}

// BoolImm is a boolean literal, used for split_predicate's "const_true"
// and for specialization conditions that have been resolved.
type BoolImm struct {
	Value bool
}

func (BoolImm) exprNode() {}

// StringImm is a string literal, used only as an argument to Call nodes
// that carry diagnostic text (e.g. error function names).
type StringImm struct {
	Value string
}

func (StringImm) exprNode() {}

// BinOp is the operator of a two-operand arithmetic or relational
// expression.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpMin
	OpMax
	OpLT
	OpLE
	OpGT
	OpGE
	OpEQ
	OpNE
	OpAnd
	OpOr
)

// Binary is a two-operand expression.
type Binary struct {
	Op   BinOp
	A, B Expr
}

func (Binary) exprNode() {}

// Not is boolean negation.
type Not struct {
	A Expr
}

func (Not) exprNode() {}

// Select is a ternary: Cond ? T : F.
type Select struct {
	Cond, T, F Expr
}

func (Select) exprNode() {}

// Likely wraps a condition with a branch-prediction hint. Halide-derived
// schedules use this specifically around fused-loop bounds guards (see
// loopnest's fused-bound predicates) so a later pass can bias codegen;
// this pass only ever wraps, never interprets, the hint.
type Likely struct {
	A Expr
}

func (Likely) exprNode() {}

// CallType distinguishes the different things a Call node can invoke.
type CallType uint8

const (
	// CallPure invokes a scheduled pipeline function to read one of its
	// values (a "Halide call", i.e. a producer/consumer reference).
	CallPure CallType = iota
	// CallExtern invokes a C-ABI extern function (the extern-stage path
	// in loopnest's produce/extern emitter).
	CallExtern
	// CallIntrinsic invokes a pass-internal runtime helper, such as
	// halide_error_extern_stage_failed or the msan annotation calls.
	CallIntrinsic
)

// Call invokes a function or intrinsic by name.
type Call struct {
	Name     string
	Args     []Expr
	CallType CallType
	// ValueIndex selects which output of a multi-output function this
	// call reads (0 for single-output functions and all intrinsics).
	ValueIndex int
}

func (Call) exprNode() {}
