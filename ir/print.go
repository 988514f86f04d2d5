package ir

import (
	"fmt"
	"strings"
)

// Print renders s as an indented, human-readable statement tree, in the
// spirit of Halide's Stmt::operator<<: one construct per line, bodies
// indented two spaces deeper than their header.
func Print(s Stmt) string {
	var b strings.Builder
	printStmt(&b, s, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printStmt(b *strings.Builder, s Stmt, depth int) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case For:
		indent(b, depth)
		fmt.Fprintf(b, "for %s in [%s, %s) %s %s {\n", n.Name, PrintExpr(n.Min), PrintExpr(n.Extent), forTypeName(n.ForType), deviceAPIName(n.DeviceAPI))
		printStmt(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case LetStmt:
		indent(b, depth)
		fmt.Fprintf(b, "let %s = %s\n", n.Name, PrintExpr(n.Value))
		printStmt(b, n.Body, depth)
	case IfThenElse:
		indent(b, depth)
		fmt.Fprintf(b, "if %s {\n", PrintExpr(n.Condition))
		printStmt(b, n.Then, depth+1)
		indent(b, depth)
		b.WriteString("}")
		if n.Else != nil {
			b.WriteString(" else {\n")
			printStmt(b, n.Else, depth+1)
			indent(b, depth)
			b.WriteString("}\n")
		} else {
			b.WriteString("\n")
		}
	case Block:
		for _, c := range n.Stmts {
			printStmt(b, c, depth)
		}
	case Provide:
		indent(b, depth)
		fmt.Fprintf(b, "%s(%s) = %s\n", n.Name, joinExprs(n.Args), joinExprs(n.Values))
	case Realize:
		indent(b, depth)
		fmt.Fprintf(b, "realize %s(%s) if %s {\n", n.Name, joinRanges(n.Bounds), PrintExpr(n.Condition))
		printStmt(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case Prefetch:
		indent(b, depth)
		fmt.Fprintf(b, "prefetch %s(%s) {\n", n.Name, joinRanges(n.Bounds))
		printStmt(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case ProducerConsumer:
		indent(b, depth)
		kind := "consume"
		if n.IsProducer {
			kind = "produce"
		}
		fmt.Fprintf(b, "%s %s {\n", kind, n.Name)
		printStmt(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case AssertStmt:
		indent(b, depth)
		fmt.Fprintf(b, "assert(%s, %s)\n", PrintExpr(n.Condition), PrintExpr(n.Message))
	case Evaluate:
		indent(b, depth)
		fmt.Fprintf(b, "evaluate %s\n", PrintExpr(n.Value))
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown stmt %T>\n", n)
	}
}

// PrintExpr renders e as a single-line infix expression.
func PrintExpr(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch n := e.(type) {
	case Var:
		return n.Name
	case IntImm:
		return fmt.Sprintf("%d", n.Value)
	case BoolImm:
		return fmt.Sprintf("%t", n.Value)
	case StringImm:
		return fmt.Sprintf("%q", n.Value)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", PrintExpr(n.A), binOpSymbol(n.Op), PrintExpr(n.B))
	case Not:
		return fmt.Sprintf("!%s", PrintExpr(n.A))
	case Select:
		return fmt.Sprintf("select(%s, %s, %s)", PrintExpr(n.Cond), PrintExpr(n.T), PrintExpr(n.F))
	case Likely:
		return fmt.Sprintf("likely(%s)", PrintExpr(n.A))
	case Call:
		return fmt.Sprintf("%s(%s)", n.Name, joinExprs(n.Args))
	default:
		return fmt.Sprintf("<unknown expr %T>", n)
	}
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = PrintExpr(e)
	}
	return strings.Join(parts, ", ")
}

func joinRanges(rs []Range) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("[%s, %s)", PrintExpr(r.Min), PrintExpr(r.Extent))
	}
	return strings.Join(parts, ", ")
}

func binOpSymbol(op BinOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

func forTypeName(t ForType) string {
	switch t {
	case Serial:
		return "serial"
	case Parallel:
		return "parallel"
	case Vectorized:
		return "vectorized"
	case Unrolled:
		return "unrolled"
	case GPUBlock:
		return "gpu_block"
	case GPUThread:
		return "gpu_thread"
	case GPULane:
		return "gpu_lane"
	default:
		return "?"
	}
}

func deviceAPIName(d DeviceAPI) string {
	switch d {
	case Host:
		return "host"
	case OpenCL:
		return "opencl"
	case CUDA:
		return "cuda"
	case Metal:
		return "metal"
	case Vulkan:
		return "vulkan"
	case OpenGLCompute:
		return "openglcompute"
	case HexagonDma:
		return "hexagon_dma"
	case D3D12Compute:
		return "d3d12compute"
	default:
		return "?"
	}
}
