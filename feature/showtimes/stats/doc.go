// Package stats computes advisory completeness metrics: film and showing counts and
// the share of records that populate each optional field.
//
// Compute works on a producer batch and ForCinema on persisted rows. Neither writes
// anything, and nothing in the reconciliation path reads their output.
package stats
