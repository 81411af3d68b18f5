// Package registry holds the static converter capability table: which
// backend accepts which input extensions and can produce which outputs.
// The registry is populated once at startup and read-only afterward; all
// aggregate views are recomputed from the descriptor table so they can
// never drift from it.
package registry
