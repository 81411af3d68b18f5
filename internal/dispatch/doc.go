// Package dispatch selects exactly one converter backend for a normalized
// input/output pair and invokes it under a uniform call contract.
package dispatch
