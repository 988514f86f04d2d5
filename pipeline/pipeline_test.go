package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/imgsched/ir"
)

const samplePipeline = `
outputs: [out]
order: [helper, out]
fused_groups:
  - [helper]
  - [out]
functions:
  - name: helper
    args: [x]
    value:
      op: mul
      a: {var: x}
      b: {int: 2}
    schedule:
      store_level: {kind: inline}
      compute_level: {kind: inline}
  - name: out
    args: [x]
    value:
      call:
        func: helper
        args:
          - {int: 3}
    schedule:
      dims:
        - {var: x, for_type: serial, device_api: host}
      store_level: {kind: root}
      compute_level: {kind: root}
      bounds:
        - {var: x, min: {int: 0}, extent: {int: 100}}
`

func writeTempPipeline(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp pipeline: %v", err)
	}
	return path
}

func TestLoad_DecodesFunctionsAndSchedules(t *testing.T) {
	path := writeTempPipeline(t, samplePipeline)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(p.Outputs) != 1 || p.Outputs[0] != "out" {
		t.Fatalf("Outputs = %v", p.Outputs)
	}
	if len(p.FusedGroups) != 2 {
		t.Fatalf("FusedGroups = %v", p.FusedGroups)
	}

	helper, ok := p.Env["helper"]
	if !ok {
		t.Fatal("expected helper in env")
	}
	if !helper.Definition.Sched.ComputeLevel.IsInline() {
		t.Errorf("expected helper to be inline")
	}
	want := ir.Mul(ir.V("x"), ir.I(2))
	if !ir.EqualExpr(helper.Definition.Values[0], want) {
		t.Errorf("helper value = %s, want %s", ir.PrintExpr(helper.Definition.Values[0]), ir.PrintExpr(want))
	}

	out, ok := p.Env["out"]
	if !ok {
		t.Fatal("expected out in env")
	}
	if !out.Definition.Sched.ComputeLevel.IsRoot() {
		t.Errorf("expected out to be compute_root")
	}
	if len(out.Definition.Sched.Bounds) != 1 || out.Definition.Sched.Bounds[0].Var != "x" {
		t.Errorf("expected a bound on x, got %v", out.Definition.Sched.Bounds)
	}
	call, ok := out.Definition.Values[0].(ir.Call)
	if !ok || call.Name != "helper" {
		t.Errorf("expected out's value to call helper, got %s", ir.PrintExpr(out.Definition.Values[0]))
	}
}

func TestLoad_UnknownForTypeErrors(t *testing.T) {
	path := writeTempPipeline(t, `
functions:
  - name: bad
    args: [x]
    value: {int: 0}
    schedule:
      dims:
        - {var: x, for_type: nonexistent}
      store_level: {kind: root}
      compute_level: {kind: root}
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown for_type")
	}
}

func TestLoad_ExternFunctionDecodesArgs(t *testing.T) {
	path := writeTempPipeline(t, `
functions:
  - name: ext
    args: [x]
    extern:
      name: ext_impl
      args:
        - {kind: image_param, name: input}
        - {kind: buffer, name: raw}
        - {kind: expr, expr: {int: 5}}
    schedule:
      store_level: {kind: root}
      compute_level: {kind: root}
`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ext := p.Env["ext"]
	if ext == nil || !ext.IsExtern() {
		t.Fatal("expected ext to be an extern function")
	}
	if len(ext.Extern.Args) != 3 {
		t.Fatalf("expected 3 extern args, got %d", len(ext.Extern.Args))
	}
}
