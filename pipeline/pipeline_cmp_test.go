package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/schedule"
)

func TestLoad_ExternArgsMatchExactly(t *testing.T) {
	path := writeTempPipeline(t, `
functions:
  - name: ext
    args: [x]
    extern:
      name: ext_impl
      args:
        - {kind: image_param, name: input}
        - {kind: buffer, name: raw}
        - {kind: func, func: helper}
        - {kind: expr, expr: {int: 5}}
    schedule:
      store_level: {kind: root}
      compute_level: {kind: root}
`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []schedule.ExternArg{
		schedule.ExternImageParamArg{Name: "input"},
		schedule.ExternBufferArg{Name: "raw"},
		schedule.ExternFuncArg{Func: "helper"},
		schedule.ExternExprArg{Expr: ir.I(5)},
	}
	if diff := cmp.Diff(want, p.Env["ext"].Extern.Args); diff != "" {
		t.Errorf("extern args mismatch (-want +got):\n%s", diff)
	}
}
