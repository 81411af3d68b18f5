package deps

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckWorkspace verifies the data directory is fully accessible and has at
// least minFreeGiB of free space.
func CheckWorkspace(path string, minFreeGiB int) Status {
	status := Status{Name: "Workspace", Command: path, Description: "job working directories"}

	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("not accessible: %v", err)
		return status
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		status.Detail = fmt.Sprintf("statfs failed: %v", err)
		return status
	}

	freeBytes := stat.Bavail * uint64(stat.Bsize)
	required := uint64(minFreeGiB) << 30
	if freeBytes < required {
		status.Detail = fmt.Sprintf("only %d MiB free, need %d GiB", freeBytes>>20, minFreeGiB)
		return status
	}

	status.Available = true
	return status
}
