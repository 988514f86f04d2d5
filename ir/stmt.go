package ir

// Stmt is a statement node: structured control flow with no value.
type Stmt interface {
	stmtNode()
}

// ForType is the kind of loop a For node represents. It is metadata for
// a downstream runtime scheduler — this pass only records and validates
// it (see legality's race check and inject's forced-Serial-on-collapse
// rule), it never interprets it.
type ForType uint8

const (
	Serial ForType = iota
	Parallel
	Vectorized
	Unrolled
	GPUBlock
	GPUThread
	GPULane
)

// DeviceAPI names the target device a loop is recorded against. This
// pass only records device_api on loops; device-specific lowering is
// out of scope.
type DeviceAPI uint8

const (
	Host DeviceAPI = iota
	OpenCL
	CUDA
	Metal
	Vulkan
	OpenGLCompute
	HexagonDma
	D3D12Compute
)

// For is a loop over [Min, Min+Extent) with unit step, named so that
// bound lets ("<name>.loop_min" etc.) can be found by later passes.
type For struct {
	Name      string
	Min       Expr
	Extent    Expr
	ForType   ForType
	DeviceAPI DeviceAPI
	Body      Stmt
}

func (For) stmtNode() {}

// LetStmt binds Name to Value for the scope of Body.
type LetStmt struct {
	Name  string
	Value Expr
	Body  Stmt
}

func (LetStmt) stmtNode() {}

// IfThenElse executes Then when Condition holds, else Else (which may be
// nil, meaning no-op).
type IfThenElse struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func (IfThenElse) stmtNode() {}

// Block is a sequence of statements executed in order. A nil entry is
// never valid; an empty Block is a no-op.
type Block struct {
	Stmts []Stmt
}

func (Block) stmtNode() {}

// Provide assigns Values to the named function at the index point Args.
type Provide struct {
	Name   string
	Values []Expr
	Args   []Expr
}

func (Provide) stmtNode() {}

// Range is one dimension of a Realize or Prefetch allocation bound.
type Range struct {
	Min, Extent Expr
}

// Realize introduces an allocation region for Name over Bounds, valid
// for the scope of Body, active only when Condition holds (const_true
// when the allocation is unconditional).
type Realize struct {
	Name      string
	Bounds    []Range
	Condition Expr
	Body      Stmt
}

func (Realize) stmtNode() {}

// Prefetch marks that Name's data over Bounds should be prefetched
// before Body runs. Supplemented from the original implementation (see
// SPEC_FULL.md §12); purely advisory, never required by any invariant.
type Prefetch struct {
	Name   string
	Bounds []Range
	Body   Stmt
}

func (Prefetch) stmtNode() {}

// ProducerConsumer delineates where Name is produced (IsProducer true)
// versus consumed (IsProducer false).
type ProducerConsumer struct {
	Name       string
	IsProducer bool
	Body       Stmt
}

func (ProducerConsumer) stmtNode() {}

// AssertStmt fails at runtime with Message when Condition does not hold.
type AssertStmt struct {
	Condition Expr
	Message   Expr
}

func (AssertStmt) stmtNode() {}

// Evaluate evaluates Value for its side effects (e.g. an extern call)
// and discards the result.
type Evaluate struct {
	Value Expr
}

func (Evaluate) stmtNode() {}
