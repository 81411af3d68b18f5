package jobs

import "errors"

var (
	// ErrInput marks client errors: empty file list, missing target
	// format, and similar pre-conversion rejections.
	ErrInput = errors.New("invalid input")

	// ErrInfra marks infrastructure failures fatal to the enclosing job:
	// store unreachable, working directory creation failure.
	ErrInfra = errors.New("infrastructure failure")

	// ErrNotFound covers missing jobs, files, and artifacts. Authorization
	// failures surface as ErrNotFound too so the existence of other users'
	// jobs never leaks.
	ErrNotFound = errors.New("not found")
)
