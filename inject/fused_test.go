package inject

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/names"
	"github.com/gogpu/imgsched/schedule"
)

func TestInjectGroup_AllSkippedReturnsUnchanged(t *testing.T) {
	parent := &schedule.Function{Name: "p", Args: []string{"x"}, Definition: schedule.Definition{
		Args: []ir.Expr{ir.V("x")}, Values: []ir.Expr{ir.I(0)}, Sched: rootSchedule(),
	}}
	child := &schedule.Function{Name: "c", Args: []string{"x"}, Definition: schedule.Definition{
		Args: []ir.Expr{ir.V("x")}, Values: []ir.Expr{ir.I(0)}, Sched: rootSchedule(),
	}}
	group := []*schedule.Function{parent, child}
	env := schedule.Env{"p": parent, "c": child}

	body := ir.Evaluate{Value: ir.I(0)}
	out, err := InjectGroup(group, []bool{false, false}, env, body)
	require.NoError(t, err)
	require.Equal(t, ir.Stmt(body), out, "expected the skeleton returned unchanged when nobody is used")
}

func TestInjectGroup_ParentCannotBeSkipped(t *testing.T) {
	parent := &schedule.Function{Name: "p", Args: []string{"x"}, Definition: schedule.Definition{Sched: rootSchedule()}}
	child := &schedule.Function{Name: "c", Args: []string{"x"}, Definition: schedule.Definition{Sched: rootSchedule()}}
	group := []*schedule.Function{parent, child}

	body := ir.Call{Name: "c", CallType: ir.CallPure}
	wrapped := ir.Evaluate{Value: body}
	_, err := InjectGroup(group, []bool{false, false}, schedule.Env{}, wrapped)
	require.Error(t, err, "parent p is not used and not an output, but child c is used")
}

func TestInjectGroup_WrapsProducerConsumerForLiveMembers(t *testing.T) {
	parent := &schedule.Function{Name: "p", Args: []string{"x"}, Definition: schedule.Definition{
		Args: []ir.Expr{ir.V("x")}, Values: []ir.Expr{ir.I(1)}, Sched: rootSchedule(),
	}}
	group := []*schedule.Function{parent}
	out, err := InjectGroup(group, []bool{true}, schedule.Env{"p": parent}, ir.Evaluate{Value: ir.I(0)})
	require.NoError(t, err)
	found := false
	ir.WalkStmt(externLikeVisitor(func(s ir.Stmt) {
		if pc, ok := s.(ir.ProducerConsumer); ok && pc.Name == "p" {
			found = true
		}
	}), out)
	if !found {
		t.Fatalf("expected a ProducerConsumer(p) in the result, got:\n%s", ir.Print(out))
	}
}

func TestBuildFusedProducer_RenamesAndSerializesRedirectedChildLoop(t *testing.T) {
	parent := &schedule.Function{
		Name: "p",
		Args: []string{"y"},
		Definition: schedule.Definition{
			Args:   []ir.Expr{ir.V("y")},
			Values: []ir.Expr{ir.I(0)},
			Sched: schedule.Schedule{
				Dims:         []schedule.Dim{{Var: "y", ForType: ir.Serial}, {Var: names.OutermostDim, ForType: ir.Serial}},
				ComputeLevel: schedule.Root(),
				StoreLevel:   schedule.Root(),
			},
		},
	}
	child := &schedule.Function{
		Name: "c",
		Args: []string{"x", "y"},
		Definition: schedule.Definition{
			Args:   []ir.Expr{ir.V("x"), ir.V("y")},
			Values: []ir.Expr{ir.I(1)},
			Sched: schedule.Schedule{
				Dims: []schedule.Dim{
					{Var: "x", ForType: ir.Serial},
					{Var: "y", ForType: ir.Parallel},
					{Var: names.OutermostDim, ForType: ir.Serial},
				},
				FusedPairs:   []schedule.FusedPair{{Func1: "c", Stage1: 0, Func2: "p", Stage2: 0, Var: "y"}},
				ComputeLevel: schedule.Root(),
				StoreLevel:   schedule.Root(),
			},
		},
	}
	group := []*schedule.Function{parent, child}
	skip := []bool{false, false}

	producer, addLets, bindings, err := buildFusedProducer(group, skip)
	require.NoError(t, err)
	for i := len(addLets) - 1; i >= 0; i-- {
		producer = ir.LetStmt{Name: addLets[i].Name, Value: addLets[i].Value, Body: producer}
	}

	require.Equal(t, names.LoopMin("p.s0.y"), bindings["c.s0.y.loop_min"])
	require.Equal(t, names.LoopMax("p.s0.y"), bindings["c.s0.y.loop_max"])

	var sawOldName, sawNewName bool
	var newForType ir.ForType
	ir.WalkStmt(externLikeVisitor(func(s ir.Stmt) {
		f, ok := s.(ir.For)
		if !ok {
			return
		}
		switch f.Name {
		case "c.s0.y":
			sawOldName = true
		case names.FusedLoopVar("c", 0, "y"):
			sawNewName = true
			newForType = f.ForType
		}
	}), producer)

	require.False(t, sawOldName, "redirected child dim must not keep its original For name")
	require.True(t, sawNewName, "redirected child dim must be renamed to its fused form")
	require.Equal(t, ir.Serial, newForType, "a redirected child loop collapsed to extent 1 must be forced Serial")
}
