package ir

// Mutator rebuilds a statement/expression tree. DefaultMutateStmt and
// DefaultMutateExpr call MutateStmt/MutateExpr on each child of a node:
// a Mutator that wants default (identity) recursion for a node kind it
// does not care about should call those Default* helpers with itself
// as the Mutator (Go has no inheritance, so callers embed Base and
// override only what they need).
type Mutator interface {
	MutateStmt(s Stmt) Stmt
	MutateExpr(e Expr) Expr
}

// Base is a Mutator that rebuilds every node identically, recursing into
// children via the package-level DefaultMutate* helpers. Embed it and
// override MutateStmt/MutateExpr in the embedding type; from the
// override, call the matching DefaultMutate* helper with the embedding
// type as the Mutator to get default recursion for the node kinds you
// don't special-case (Base.MutateStmt/MutateExpr recurse with Base{},
// so the override would not see the children).
type Base struct{}

func (Base) MutateStmt(s Stmt) Stmt { return DefaultMutateStmt(Base{}, s) }
func (Base) MutateExpr(e Expr) Expr { return DefaultMutateExpr(Base{}, e) }

// DefaultMutateStmt applies m to every child of s and reconstructs s
// with the mutated children, without re-invoking m on s itself.
func DefaultMutateStmt(m Mutator, s Stmt) Stmt {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case For:
		n.Min = m.MutateExpr(n.Min)
		n.Extent = m.MutateExpr(n.Extent)
		n.Body = m.MutateStmt(n.Body)
		return n
	case LetStmt:
		n.Value = m.MutateExpr(n.Value)
		n.Body = m.MutateStmt(n.Body)
		return n
	case IfThenElse:
		n.Condition = m.MutateExpr(n.Condition)
		n.Then = m.MutateStmt(n.Then)
		if n.Else != nil {
			n.Else = m.MutateStmt(n.Else)
		}
		return n
	case Block:
		out := make([]Stmt, len(n.Stmts))
		for i, c := range n.Stmts {
			out[i] = m.MutateStmt(c)
		}
		n.Stmts = out
		return n
	case Provide:
		n.Values = mutateExprSlice(m, n.Values)
		n.Args = mutateExprSlice(m, n.Args)
		return n
	case Realize:
		n.Bounds = mutateRanges(m, n.Bounds)
		n.Condition = m.MutateExpr(n.Condition)
		n.Body = m.MutateStmt(n.Body)
		return n
	case Prefetch:
		n.Bounds = mutateRanges(m, n.Bounds)
		n.Body = m.MutateStmt(n.Body)
		return n
	case ProducerConsumer:
		n.Body = m.MutateStmt(n.Body)
		return n
	case AssertStmt:
		n.Condition = m.MutateExpr(n.Condition)
		n.Message = m.MutateExpr(n.Message)
		return n
	case Evaluate:
		n.Value = m.MutateExpr(n.Value)
		return n
	default:
		return s
	}
}

// DefaultMutateExpr applies m to every child of e and reconstructs e
// with the mutated children, without re-invoking m on e itself.
func DefaultMutateExpr(m Mutator, e Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case Binary:
		n.A = m.MutateExpr(n.A)
		n.B = m.MutateExpr(n.B)
		return n
	case Not:
		n.A = m.MutateExpr(n.A)
		return n
	case Select:
		n.Cond = m.MutateExpr(n.Cond)
		n.T = m.MutateExpr(n.T)
		n.F = m.MutateExpr(n.F)
		return n
	case Likely:
		n.A = m.MutateExpr(n.A)
		return n
	case Call:
		n.Args = mutateExprSlice(m, n.Args)
		return n
	default:
		return e
	}
}

func mutateExprSlice(m Mutator, in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = m.MutateExpr(e)
	}
	return out
}

func mutateRanges(m Mutator, in []Range) []Range {
	if in == nil {
		return nil
	}
	out := make([]Range, len(in))
	for i, r := range in {
		out[i] = Range{Min: m.MutateExpr(r.Min), Extent: m.MutateExpr(r.Extent)}
	}
	return out
}

// substituteMutator implements Substitute, SubstituteExpr and RenameVar below.
type substituteMutator struct {
	Base
	match func(Var) (Expr, bool)
}

func (s *substituteMutator) MutateExpr(e Expr) Expr {
	if vr, ok := e.(Var); ok {
		if repl, ok := s.match(vr); ok {
			return repl
		}
	}
	return DefaultMutateExpr(s, e)
}

func (s *substituteMutator) MutateStmt(st Stmt) Stmt {
	return DefaultMutateStmt(s, st)
}

// Substitute replaces every Var named exactly name with value, throughout s.
func Substitute(name string, value Expr, s Stmt) Stmt {
	m := &substituteMutator{match: func(v Var) (Expr, bool) {
		if v.Name == name {
			return value, true
		}
		return nil, false
	}}
	return m.MutateStmt(s)
}

// SubstituteExpr replaces every Var named exactly name with value, within e.
func SubstituteExpr(name string, value Expr, e Expr) Expr {
	m := &substituteMutator{match: func(v Var) (Expr, bool) {
		if v.Name == name {
			return value, true
		}
		return nil, false
	}}
	return m.MutateExpr(e)
}

// RenameVar renames every Var named exactly oldName to newName, throughout s.
func RenameVar(oldName, newName string, s Stmt) Stmt {
	return Substitute(oldName, Var{Name: newName}, s)
}
