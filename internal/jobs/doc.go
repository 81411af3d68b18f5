// Package jobs owns the Job and FileRecord entities: their SQLite store,
// the per-job working directory layout, and the lifecycle manager that
// drives a batch of files through conversion with per-file isolation.
package jobs
