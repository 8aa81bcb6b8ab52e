// Package pareto computes non-dominated sets over objective vectors.
//
// A point A dominates B when A is at least as good as B on every objective
// and strictly better on at least one, after each objective is oriented by
// its [Direction]. Comparisons use an absolute tolerance: values within
// epsilon of each other count as equal, so exact duplicates never dominate
// one another and both stay on the front.
//
// [Front] is the pairwise definition evaluated directly; it has no state
// and a changed input means calling it again.
package pareto
