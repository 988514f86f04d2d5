// Package pipeline loads a schedule-lowering pipeline description from
// YAML: the functions of a pipeline, their schedules, and the fused
// groups and output/order lists the driver needs (SPEC_FULL.md §11.4).
// It is the on-disk format cmd/schedc reads; it builds a Pipeline
// holding a schedule.Env and those lists, from which cmd/schedc
// assembles the sched.LowerOptions the rest of the pass operates on.
package pipeline
