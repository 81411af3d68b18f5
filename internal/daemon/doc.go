// Package daemon hosts the convertx HTTP API, enforces single-instance
// execution, and wires the store, dispatcher, and lifecycle manager
// together.
package daemon
