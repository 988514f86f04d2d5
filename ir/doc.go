// Package ir defines the statement and expression tree produced by the
// schedule-lowering pass.
//
// The tree is a direct AST, not an SSA arena: statements and expressions
// hold their children as interface-typed fields, and every node is
// immutable once constructed. Downstream passes (bounds inference,
// simplification proper, codegen) consume the tree read-only; this
// package's own Simplify is intentionally shallow — it exists only to
// keep the bound expressions this pass emits from growing unboundedly,
// not to serve as a general optimizer.
//
// # Structure
//
// Two disjoint interfaces:
//   - Expr: side-effect-free integer/boolean-valued expressions.
//   - Stmt: statements with structured control flow and no value.
//
// A Visitor recurses read-only; a Mutator rebuilds the tree, defaulting
// to identity recursion so a caller only overrides the node kinds it
// cares about.
package ir
