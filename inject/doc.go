// Package inject implements the two statement mutators that thread a
// scheduled function's realization into the skeleton statement the
// driver builds: the single-function injector (one function, no
// compute_with partners) and the fused-group injector (several
// functions sharing a compute level via compute_with). Both mutators
// carry their own traversal cursors as mutable struct fields, in the
// style of wgsl.Lowerer in the reference compiler this pass was
// modeled on.
package inject
