// Package backends wraps the external conversion tools convertx can drive.
// Each client owns a static capability descriptor and an executable entry
// point satisfying the dispatcher's call contract. Invocations run under a
// bounded timeout and the spawned process is reaped on every exit path.
package backends
