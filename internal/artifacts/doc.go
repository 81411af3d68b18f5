// Package artifacts resolves completed conversion outputs for their
// owners. Ownership is verified before any path is composed, and wrong
// owners receive the same answer as missing jobs so the existence of other
// users' data never leaks.
package artifacts
