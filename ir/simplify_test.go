package ir

import "testing"

func TestSimplify_ConstantFold(t *testing.T) {
	cases := []struct {
		name string
		in   Expr
		want Expr
	}{
		{"add", Add(I(2), I(3)), I(5)},
		{"add-zero-left", Add(I(0), V("x")), V("x")},
		{"add-zero-right", Add(V("x"), I(0)), V("x")},
		{"mul-zero", Mul(V("x"), I(0)), I(0)},
		{"mul-one", Mul(V("x"), I(1)), V("x")},
		{"sub-self", Sub(V("x"), V("x")), I(0)},
		{"min-equal", Min(V("x"), V("x")), V("x")},
		{"floor-div-negative", Div(I(-7), I(2)), I(-4)},
		{"floor-mod-negative", Mod(I(-7), I(2)), I(1)},
		{"and-false-short-circuits", And(BoolImm{Value: false}, V("x")), BoolImm{Value: false}},
		{"or-true-short-circuits", Or(BoolImm{Value: true}, V("x")), BoolImm{Value: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Simplify(c.in)
			if !EqualExpr(got, c.want) {
				t.Errorf("Simplify(%s) = %s, want %s", PrintExpr(c.in), PrintExpr(got), PrintExpr(c.want))
			}
		})
	}
}

func TestSimplifyStmt_DropsDeadBranch(t *testing.T) {
	s := IfThenElse{
		Condition: BoolImm{Value: true},
		Then:      Evaluate{Value: I(1)},
		Else:      Evaluate{Value: I(2)},
	}
	got := SimplifyStmt(s)
	want := Evaluate{Value: I(1)}
	if !Equal(got, want) {
		t.Errorf("SimplifyStmt = %#v, want %#v", got, want)
	}
}
