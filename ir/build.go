package ir

// Small expression-builder helpers. These exist purely to keep call
// sites in loopnest/inject readable — every one of them is a one-line
// wrapper around a Binary/Not/Select literal.

func Add(a, b Expr) Expr { return Binary{Op: OpAdd, A: a, B: b} }
func Sub(a, b Expr) Expr { return Binary{Op: OpSub, A: a, B: b} }
func Mul(a, b Expr) Expr { return Binary{Op: OpMul, A: a, B: b} }
func Div(a, b Expr) Expr { return Binary{Op: OpDiv, A: a, B: b} }
func Mod(a, b Expr) Expr { return Binary{Op: OpMod, A: a, B: b} }
func Min(a, b Expr) Expr { return Binary{Op: OpMin, A: a, B: b} }
func Max(a, b Expr) Expr { return Binary{Op: OpMax, A: a, B: b} }
func LT(a, b Expr) Expr  { return Binary{Op: OpLT, A: a, B: b} }
func LE(a, b Expr) Expr  { return Binary{Op: OpLE, A: a, B: b} }
func GT(a, b Expr) Expr  { return Binary{Op: OpGT, A: a, B: b} }
func GE(a, b Expr) Expr  { return Binary{Op: OpGE, A: a, B: b} }
func EQ(a, b Expr) Expr  { return Binary{Op: OpEQ, A: a, B: b} }
func NE(a, b Expr) Expr  { return Binary{Op: OpNE, A: a, B: b} }
func And(a, b Expr) Expr { return Binary{Op: OpAnd, A: a, B: b} }
func Or(a, b Expr) Expr  { return Binary{Op: OpOr, A: a, B: b} }

// AndAll folds a list of boolean expressions with And, skipping nils and
// literal-true operands, and returning ConstTrue() for an empty/all-true
// list. Used to combine the clauses of an explicit-bound assertion
// (loopnest.ExplicitBoundAssertions).
func AndAll(exprs ...Expr) Expr {
	var out Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if b, ok := e.(BoolImm); ok && b.Value {
			continue
		}
		if out == nil {
			out = e
		} else {
			out = And(out, e)
		}
	}
	if out == nil {
		return ConstTrue()
	}
	return out
}

// ConstTrue is the always-true condition used on unconditional Realize
// nodes and as the identity element of AndAll.
func ConstTrue() Expr { return BoolImm{Value: true} }

// V is shorthand for Var{Name: name}.
func V(name string) Expr { return Var{Name: name} }

// I is shorthand for IntImm{Value: v}.
func I(v int64) Expr { return IntImm{Value: v} }
