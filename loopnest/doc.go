// Package loopnest builds the statement tree that computes one
// definition (initial or update) of one function: SPEC_FULL.md §4.2's
// build_provide_loop_nest, §4.3/§4.3a's apply-splits and
// compute_loop_bounds_after_split, §4.4's produce/extern emitter, and
// §4.5's explicit-bound assertions.
//
// Everything here is a pure function of its inputs: no schedule is
// mutated, and the returned Stmt is a fresh tree.
package loopnest
