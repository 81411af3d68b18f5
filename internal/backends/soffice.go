package backends

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"convertx/internal/dispatch"
	"convertx/internal/registry"
)

// Soffice wraps headless LibreOffice for office document conversions.
type Soffice struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// SofficeName is the backend identifier used in descriptors and requests.
const SofficeName = "soffice"

// NewSoffice constructs a LibreOffice client.
func NewSoffice(binary string, timeout time.Duration, opts ...Option) (*Soffice, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("soffice binary required")
	}
	client := &Soffice{binary: binary, timeout: timeout, exec: commandExecutor{}}
	applyOptions(&client.exec, opts)
	return client, nil
}

// Descriptor returns LibreOffice's static capability table.
func (c *Soffice) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:    SofficeName,
		Inputs:  []string{"doc", "docx", "odt", "rtf", "txt", "xls", "xlsx", "ods", "csv", "ppt", "pptx", "odp"},
		Outputs: []string{"pdf", "docx", "odt", "html", "txt", "csv", "xlsx"},
	}
}

// Convert runs soffice --convert-to into the output directory. LibreOffice
// picks the output name itself (input base + target extension), so the
// produced file is renamed onto the requested path when the two differ and
// its presence is verified before reporting success.
func (c *Soffice) Convert(ctx context.Context, req dispatch.Request) error {
	runCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	outDir := filepath.Dir(req.OutputPath)
	target := req.OutputFormat
	if filter := req.Options["filter"]; filter != "" {
		target = target + ":" + filter
	}
	args := []string{"--headless", "--convert-to", target, "--outdir", outDir, req.InputPath}

	if err := c.exec.Run(runCtx, c.binary, args); err != nil {
		return fmt.Errorf("soffice convert: %w", err)
	}

	base := filepath.Base(req.InputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	produced := filepath.Join(outDir, base+"."+req.OutputFormat)
	if produced != req.OutputPath {
		if err := os.Rename(produced, req.OutputPath); err != nil {
			return fmt.Errorf("soffice rename output: %w", err)
		}
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("soffice produced no output file: %w", err)
	}
	return nil
}
