// Package sched is the root package of the schedule-lowering pass: it
// exposes Lower, the public entry point that takes a pipeline's
// environment, output list, topological order, and fused groups, and
// returns the single imperative statement tree ready for bounds
// inference and codegen (SPEC_FULL.md §4.10), in the shape of the
// teacher compiler's root CompileWithOptions API.
package sched
