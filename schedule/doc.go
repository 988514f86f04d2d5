// Package schedule implements the pipeline data model of
// SPEC_FULL.md §3: Function, Definition, Schedule, LoopLevel, Dim,
// Split, FusedPair, Bound, RVar, and Specialization. These types are
// read-only input to the rest of the pass — nothing in this package
// mutates a Schedule; package loopnest, inject, legality, and validate
// each read it to build or check the output statement tree.
package schedule
