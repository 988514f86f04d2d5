package ir

// Visitor recurses read-only over a statement/expression tree. Each
// method returns false to skip recursing into that node's children;
// the zero Visitor (embedded) recurses into everything.
type Visitor interface {
	VisitStmt(s Stmt) bool
	VisitExpr(e Expr) bool
}

// BaseVisitor is a Visitor that recurses into every node and does
// nothing else. Embed it to override only the node kinds of interest.
type BaseVisitor struct{}

func (BaseVisitor) VisitStmt(Stmt) bool { return true }
func (BaseVisitor) VisitExpr(Expr) bool { return true }

// WalkStmt visits s and, if the visitor returns true, its children.
func WalkStmt(v Visitor, s Stmt) {
	if s == nil || !v.VisitStmt(s) {
		return
	}
	switch n := s.(type) {
	case For:
		WalkExpr(v, n.Min)
		WalkExpr(v, n.Extent)
		WalkStmt(v, n.Body)
	case LetStmt:
		WalkExpr(v, n.Value)
		WalkStmt(v, n.Body)
	case IfThenElse:
		WalkExpr(v, n.Condition)
		WalkStmt(v, n.Then)
		WalkStmt(v, n.Else)
	case Block:
		for _, c := range n.Stmts {
			WalkStmt(v, c)
		}
	case Provide:
		for _, e := range n.Values {
			WalkExpr(v, e)
		}
		for _, e := range n.Args {
			WalkExpr(v, e)
		}
	case Realize:
		for _, r := range n.Bounds {
			WalkExpr(v, r.Min)
			WalkExpr(v, r.Extent)
		}
		WalkExpr(v, n.Condition)
		WalkStmt(v, n.Body)
	case Prefetch:
		for _, r := range n.Bounds {
			WalkExpr(v, r.Min)
			WalkExpr(v, r.Extent)
		}
		WalkStmt(v, n.Body)
	case ProducerConsumer:
		WalkStmt(v, n.Body)
	case AssertStmt:
		WalkExpr(v, n.Condition)
		WalkExpr(v, n.Message)
	case Evaluate:
		WalkExpr(v, n.Value)
	}
}

// WalkExpr visits e and, if the visitor returns true, its children.
func WalkExpr(v Visitor, e Expr) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	switch n := e.(type) {
	case Binary:
		WalkExpr(v, n.A)
		WalkExpr(v, n.B)
	case Not:
		WalkExpr(v, n.A)
	case Select:
		WalkExpr(v, n.Cond)
		WalkExpr(v, n.T)
		WalkExpr(v, n.F)
	case Likely:
		WalkExpr(v, n.A)
	case Call:
		for _, a := range n.Args {
			WalkExpr(v, a)
		}
	}
}

// ExprUsesVar reports whether e references a Var whose Name satisfies
// the caller-supplied matches predicate; the matching rule (exact, or
// ignoring a function prefix) is entirely up to the caller.
func ExprUsesVar(e Expr, matches func(candidate string) bool) bool {
	found := false
	v := &usesVarVisitor{matches: matches, found: &found}
	WalkExpr(v, e)
	return found
}

type usesVarVisitor struct {
	matches func(string) bool
	found   *bool
}

func (u *usesVarVisitor) VisitStmt(Stmt) bool { return !*u.found }
func (u *usesVarVisitor) VisitExpr(e Expr) bool {
	if *u.found {
		return false
	}
	if vr, ok := e.(Var); ok && u.matches(vr.Name) {
		*u.found = true
		return false
	}
	return true
}

// StmtUsesName reports whether s contains a Call, Provide, or Realize
// referencing the function name (exact match, as produced by the
// fused-group/single-function injectors when checking "is F used in
// body").
func StmtUsesName(s Stmt, name string) bool {
	found := false
	v := &usesNameVisitor{name: name, found: &found}
	WalkStmt(v, s)
	return found
}

type usesNameVisitor struct {
	name  string
	found *bool
}

func (u *usesNameVisitor) VisitStmt(s Stmt) bool {
	if *u.found {
		return false
	}
	switch n := s.(type) {
	case Provide:
		if n.Name == u.name {
			*u.found = true
			return false
		}
	case Realize:
		if n.Name == u.name {
			*u.found = true
			return false
		}
	}
	return true
}

func (u *usesNameVisitor) VisitExpr(e Expr) bool {
	if *u.found {
		return false
	}
	if c, ok := e.(Call); ok && c.CallType == CallPure && c.Name == u.name {
		*u.found = true
		return false
	}
	return true
}

// ContainsImpureCall reports whether e transitively contains a Call of
// CallType other than CallPure. Used by the predicate-hoisting step
// (loopnest step 6) which must not hoist a predicate referencing an
// impure call over a boundary that would change how often it runs.
func ContainsImpureCall(e Expr) bool {
	found := false
	v := &impureCallVisitor{found: &found}
	WalkExpr(v, e)
	return found
}

type impureCallVisitor struct{ found *bool }

func (i *impureCallVisitor) VisitStmt(Stmt) bool { return !*i.found }
func (i *impureCallVisitor) VisitExpr(e Expr) bool {
	if *i.found {
		return false
	}
	if c, ok := e.(Call); ok && c.CallType != CallPure {
		*i.found = true
		return false
	}
	return true
}
