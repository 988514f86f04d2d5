package ir

// Equal reports whether two statement trees are structurally identical.
// Tests use it for exact tree comparisons; the single-function
// injector's "is F not yet realized" check uses StmtUsesName instead.
func Equal(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case For:
		y, ok := b.(For)
		return ok && x.Name == y.Name && x.ForType == y.ForType && x.DeviceAPI == y.DeviceAPI &&
			EqualExpr(x.Min, y.Min) && EqualExpr(x.Extent, y.Extent) && Equal(x.Body, y.Body)
	case LetStmt:
		y, ok := b.(LetStmt)
		return ok && x.Name == y.Name && EqualExpr(x.Value, y.Value) && Equal(x.Body, y.Body)
	case IfThenElse:
		y, ok := b.(IfThenElse)
		return ok && EqualExpr(x.Condition, y.Condition) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case Block:
		y, ok := b.(Block)
		if !ok || len(x.Stmts) != len(y.Stmts) {
			return false
		}
		for i := range x.Stmts {
			if !Equal(x.Stmts[i], y.Stmts[i]) {
				return false
			}
		}
		return true
	case Provide:
		y, ok := b.(Provide)
		return ok && x.Name == y.Name && equalExprSlice(x.Values, y.Values) && equalExprSlice(x.Args, y.Args)
	case Realize:
		y, ok := b.(Realize)
		if !ok || x.Name != y.Name || len(x.Bounds) != len(y.Bounds) {
			return false
		}
		for i := range x.Bounds {
			if !EqualExpr(x.Bounds[i].Min, y.Bounds[i].Min) || !EqualExpr(x.Bounds[i].Extent, y.Bounds[i].Extent) {
				return false
			}
		}
		return EqualExpr(x.Condition, y.Condition) && Equal(x.Body, y.Body)
	case Prefetch:
		y, ok := b.(Prefetch)
		if !ok || x.Name != y.Name || len(x.Bounds) != len(y.Bounds) {
			return false
		}
		for i := range x.Bounds {
			if !EqualExpr(x.Bounds[i].Min, y.Bounds[i].Min) || !EqualExpr(x.Bounds[i].Extent, y.Bounds[i].Extent) {
				return false
			}
		}
		return Equal(x.Body, y.Body)
	case ProducerConsumer:
		y, ok := b.(ProducerConsumer)
		return ok && x.Name == y.Name && x.IsProducer == y.IsProducer && Equal(x.Body, y.Body)
	case AssertStmt:
		y, ok := b.(AssertStmt)
		return ok && EqualExpr(x.Condition, y.Condition) && EqualExpr(x.Message, y.Message)
	case Evaluate:
		y, ok := b.(Evaluate)
		return ok && EqualExpr(x.Value, y.Value)
	default:
		return false
	}
}

// EqualExpr reports whether two expression trees are structurally identical.
func EqualExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case IntImm:
		y, ok := b.(IntImm)
		return ok && x.Value == y.Value
	case BoolImm:
		y, ok := b.(BoolImm)
		return ok && x.Value == y.Value
	case StringImm:
		y, ok := b.(StringImm)
		return ok && x.Value == y.Value
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op && EqualExpr(x.A, y.A) && EqualExpr(x.B, y.B)
	case Not:
		y, ok := b.(Not)
		return ok && EqualExpr(x.A, y.A)
	case Select:
		y, ok := b.(Select)
		return ok && EqualExpr(x.Cond, y.Cond) && EqualExpr(x.T, y.T) && EqualExpr(x.F, y.F)
	case Likely:
		y, ok := b.(Likely)
		return ok && EqualExpr(x.A, y.A)
	case Call:
		y, ok := b.(Call)
		return ok && x.Name == y.Name && x.CallType == y.CallType && x.ValueIndex == y.ValueIndex && equalExprSlice(x.Args, y.Args)
	default:
		return false
	}
}

func equalExprSlice(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}
