// Package catalog defines the component records a tradespace sweep draws
// from: propellers, motors, batteries and speed controllers.
//
// Records are plain values. A [Catalog] is passed by argument to whoever
// needs it and is never held in package state, so concurrent evaluations
// can share one without locking.
package catalog
