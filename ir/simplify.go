package ir

// Simplify applies a small set of structural rewrites — constant
// folding, x+0/x*1/x*0, Min/Max of equal operands, and
// IfThenElse/Select on a resolved boolean — bottom-up over e. It is
// deliberately shallow: full algebraic simplification is an explicit
// Non-goal (SPEC_FULL.md §13); this exists only so the bound
// expressions emitted by loopnest and inject (union bounds, split
// arithmetic) don't accumulate dead structure like "x - x + 0".
func Simplify(e Expr) Expr {
	m := &simplifyMutator{}
	return m.MutateExpr(e)
}

// SimplifyStmt applies Simplify to every expression reachable in s.
func SimplifyStmt(s Stmt) Stmt {
	m := &simplifyMutator{}
	return m.MutateStmt(s)
}

type simplifyMutator struct{ Base }

func (m *simplifyMutator) MutateStmt(s Stmt) Stmt {
	s = DefaultMutateStmt(m, s)
	if ite, ok := s.(IfThenElse); ok {
		if b, ok := ite.Condition.(BoolImm); ok {
			if b.Value {
				return ite.Then
			}
			if ite.Else != nil {
				return ite.Else
			}
			return Block{}
		}
	}
	return s
}

func (m *simplifyMutator) MutateExpr(e Expr) Expr {
	e = DefaultMutateExpr(m, e)
	switch n := e.(type) {
	case Binary:
		return simplifyBinary(n)
	case Not:
		if b, ok := n.A.(BoolImm); ok {
			return BoolImm{Value: !b.Value}
		}
		return n
	case Select:
		if b, ok := n.Cond.(BoolImm); ok {
			if b.Value {
				return n.T
			}
			return n.F
		}
		return n
	case Likely:
		if _, ok := n.A.(BoolImm); ok {
			return n.A
		}
		return n
	default:
		return e
	}
}

func simplifyBinary(n Binary) Expr {
	ai, aIsInt := n.A.(IntImm)
	bi, bIsInt := n.B.(IntImm)

	if aIsInt && bIsInt {
		if v, ok := foldIntImm(n.Op, ai.Value, bi.Value); ok {
			return IntImm{Value: v}
		}
	}
	if v, ok := foldBoolOperands(n); ok {
		return v
	}

	switch n.Op {
	case OpAdd:
		if isZero(n.A) {
			return n.B
		}
		if isZero(n.B) {
			return n.A
		}
	case OpSub:
		if isZero(n.B) {
			return n.A
		}
		if EqualExpr(n.A, n.B) {
			return IntImm{Value: 0}
		}
	case OpMul:
		if isZero(n.A) || isZero(n.B) {
			return IntImm{Value: 0}
		}
		if isOne(n.A) {
			return n.B
		}
		if isOne(n.B) {
			return n.A
		}
	case OpDiv:
		if isOne(n.B) {
			return n.A
		}
	case OpMin, OpMax:
		if EqualExpr(n.A, n.B) {
			return n.A
		}
	}
	return n
}

func foldIntImm(op BinOp, a, b int64) (int64, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		if b == 0 {
			return 0, false
		}
		return floorDiv(a, b), true
	case OpMod:
		if b == 0 {
			return 0, false
		}
		return floorMod(a, b), true
	case OpMin:
		if a < b {
			return a, true
		}
		return b, true
	case OpMax:
		if a > b {
			return a, true
		}
		return b, true
	default:
		return 0, false
	}
}

func foldBoolOperands(n Binary) (Expr, bool) {
	ai, aIsInt := n.A.(IntImm)
	bi, bIsInt := n.B.(IntImm)
	if aIsInt && bIsInt {
		switch n.Op {
		case OpLT:
			return BoolImm{Value: ai.Value < bi.Value}, true
		case OpLE:
			return BoolImm{Value: ai.Value <= bi.Value}, true
		case OpGT:
			return BoolImm{Value: ai.Value > bi.Value}, true
		case OpGE:
			return BoolImm{Value: ai.Value >= bi.Value}, true
		case OpEQ:
			return BoolImm{Value: ai.Value == bi.Value}, true
		case OpNE:
			return BoolImm{Value: ai.Value != bi.Value}, true
		}
	}
	ab, aIsBool := n.A.(BoolImm)
	bb, bIsBool := n.B.(BoolImm)
	if aIsBool && bIsBool {
		switch n.Op {
		case OpAnd:
			return BoolImm{Value: ab.Value && bb.Value}, true
		case OpOr:
			return BoolImm{Value: ab.Value || bb.Value}, true
		}
	}
	if aIsBool && n.Op == OpAnd {
		if !ab.Value {
			return BoolImm{Value: false}, true
		}
		return n.B, true
	}
	if bIsBool && n.Op == OpAnd {
		if !bb.Value {
			return BoolImm{Value: false}, true
		}
		return n.A, true
	}
	if aIsBool && n.Op == OpOr {
		if ab.Value {
			return BoolImm{Value: true}, true
		}
		return n.B, true
	}
	if bIsBool && n.Op == OpOr {
		if bb.Value {
			return BoolImm{Value: true}, true
		}
		return n.A, true
	}
	return nil, false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func isZero(e Expr) bool {
	i, ok := e.(IntImm)
	return ok && i.Value == 0
}

func isOne(e Expr) bool {
	i, ok := e.(IntImm)
	return ok && i.Value == 1
}
