// Package names implements the qualified-name construction and
// matching rules that make the naming surface in SPEC_FULL.md §6
// stable across the whole pass: "<func>.s<stage>.<var>" loop names,
// their ".loop_min"/".loop_max"/".loop_extent" bound lets,
// ".min_realized"/".extent_realized" realize bounds, and the
// prefix-insensitive matching a LoopLevel uses to recognize "its" loop
// regardless of which stage's prefix decorates the name.
package names
