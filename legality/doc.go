// Package legality implements the compute-site analyzer
// (ComputeLegalSchedules, SPEC_FULL.md §4.8): given a skeleton
// statement and a function name, it returns every loop level at which
// that function could be computed without being placed outside any of
// its consumers.
package legality
