package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"convertx/internal/config"
)

// Requirement defines an external tool convertx can delegate to. All
// converter binaries are optional individually: the daemon runs with
// whatever is installed, and conversions through a missing tool fail per
// file at invocation time.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the converter binary table for a configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.Tools.FFmpegBinary, Description: "audio/video conversion", Optional: true},
		{Name: "ImageMagick", Command: cfg.Tools.MagickBinary, Description: "image conversion", Optional: true},
		{Name: "LibreOffice", Command: cfg.Tools.SofficeBinary, Description: "office document conversion", Optional: true},
		{Name: "Pandoc", Command: cfg.Tools.PandocBinary, Description: "markup document conversion", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
