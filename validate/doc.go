// Package validate implements the schedule validator (SPEC_FULL.md
// §4.9): the consistency checks the driver runs against each function
// before injecting it, using package legality to decide whether a
// declared store/compute level is actually reachable without being
// placed outside a consumer.
package validate
